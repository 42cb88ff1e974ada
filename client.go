package performance

import (
	"time"

	"github.com/google/uuid"
)

// AccountTransactionType identifies a security-tagged cash movement on an account.
type AccountTransactionType string

const (
	// Dividends is a dividend payment, net of withheld tax.
	Dividends AccountTransactionType = "dividends"
	// Interest is an interest payment attributed to the security.
	Interest AccountTransactionType = "interest"
	// InterestCharge is interest charged against the position.
	InterestCharge AccountTransactionType = "interest-charge"
	// Taxes is a tax payment attributed to the security.
	Taxes AccountTransactionType = "taxes"
	// TaxRefund is a refund of a previous tax payment.
	TaxRefund AccountTransactionType = "tax-refund"
	// Fees is a fee charged against the position.
	Fees AccountTransactionType = "fees"
	// FeesRefund is a refund of a previous fee.
	FeesRefund AccountTransactionType = "fees-refund"
)

// AccountTransaction is a cash movement on an account, tagged with the
// security it relates to. Amount is the net cash that moved; for dividends
// TaxWithheld carries the withheld tax so that gross = amount + tax, and
// Shares the position the payment was based on, used to derive the
// per-share amount.
type AccountTransaction struct {
	ID          uuid.UUID
	When        time.Time
	Type        AccountTransactionType
	Security    *Security
	Amount      Money
	TaxWithheld Money
	Shares      Quantity
}

// PortfolioTransactionType identifies a position change in a portfolio.
type PortfolioTransactionType string

const (
	// Buy is a purchase settled in cash.
	Buy PortfolioTransactionType = "buy"
	// Sell is a disposal settled in cash.
	Sell PortfolioTransactionType = "sell"
	// DeliveryInbound is a purchase-like delivery of shares without a cash leg.
	DeliveryInbound PortfolioTransactionType = "delivery-inbound"
	// DeliveryOutbound is a disposal-like delivery of shares without a cash leg.
	DeliveryOutbound PortfolioTransactionType = "delivery-outbound"
	// TransferIn receives shares from another portfolio of the same client.
	TransferIn PortfolioTransactionType = "transfer-in"
	// TransferOut sends shares to another portfolio of the same client.
	TransferOut PortfolioTransactionType = "transfer-out"
)

// inbound reports whether the type adds shares to the portfolio.
func (t PortfolioTransactionType) inbound() bool {
	return t == Buy || t == DeliveryInbound || t == TransferIn
}

// outbound reports whether the type removes shares from the portfolio.
func (t PortfolioTransactionType) outbound() bool {
	return t == Sell || t == DeliveryOutbound || t == TransferOut
}

// PortfolioTransaction is a position change of a security in a portfolio.
// Amount is the cash that actually moved: for a buy it includes fees and
// taxes, for a sell it is net of them. The two halves of an inter-portfolio
// transfer share the same CrossEntry identifier.
type PortfolioTransaction struct {
	ID         uuid.UUID
	When       time.Time
	Type       PortfolioTransactionType
	Security   *Security
	Shares     Quantity
	Amount     Money
	Fees       Money
	Taxes      Money
	CrossEntry uuid.UUID
}

// Account holds security-tagged cash transactions.
type Account struct {
	name         string
	transactions []AccountTransaction
}

// NewAccount creates an empty account.
func NewAccount(name string) *Account { return &Account{name: name} }

// Name returns the account name.
func (a *Account) Name() string { return a.name }

// Append records transactions on the account.
func (a *Account) Append(txs ...AccountTransaction) {
	for i := range txs {
		if txs[i].ID == uuid.Nil {
			txs[i].ID = uuid.New()
		}
	}
	a.transactions = append(a.transactions, txs...)
}

// Transactions returns the recorded transactions, in insertion order.
func (a *Account) Transactions() []AccountTransaction { return a.transactions }

// Portfolio holds position-changing transactions and owns the FIFO lots
// created by them during a calculation.
type Portfolio struct {
	name         string
	transactions []PortfolioTransaction
}

// NewPortfolio creates an empty portfolio.
func NewPortfolio(name string) *Portfolio { return &Portfolio{name: name} }

// Name returns the portfolio name.
func (p *Portfolio) Name() string { return p.name }

// Append records transactions on the portfolio.
func (p *Portfolio) Append(txs ...PortfolioTransaction) {
	for i := range txs {
		if txs[i].ID == uuid.Nil {
			txs[i].ID = uuid.New()
		}
	}
	p.transactions = append(p.transactions, txs...)
}

// Transactions returns the recorded transactions, in insertion order.
func (p *Portfolio) Transactions() []PortfolioTransaction { return p.transactions }

// Transfer records the two halves of an inter-portfolio transfer, paired by
// a shared cross-entry identifier.
func Transfer(from, to *Portfolio, when time.Time, sec *Security, shares Quantity) {
	ref := uuid.New()
	from.Append(PortfolioTransaction{
		When: when, Type: TransferOut, Security: sec, Shares: shares, CrossEntry: ref,
	})
	to.Append(PortfolioTransaction{
		When: when, Type: TransferIn, Security: sec, Shares: shares, CrossEntry: ref,
	})
}

// Client is the read-only universe of one calculation: the securities it
// knows about and the accounts and portfolios holding them.
type Client struct {
	securities []*Security
	accounts   []*Account
	portfolios []*Portfolio
}

// NewClient creates an empty client.
func NewClient() *Client { return &Client{} }

// AddSecurity registers securities with the client.
func (c *Client) AddSecurity(secs ...*Security) { c.securities = append(c.securities, secs...) }

// AddAccount registers accounts with the client.
func (c *Client) AddAccount(accounts ...*Account) { c.accounts = append(c.accounts, accounts...) }

// AddPortfolio registers portfolios with the client.
func (c *Client) AddPortfolio(ps ...*Portfolio) { c.portfolios = append(c.portfolios, ps...) }

// Securities returns the registered securities.
func (c *Client) Securities() []*Security { return c.securities }

// Accounts returns the registered accounts.
func (c *Client) Accounts() []*Account { return c.accounts }

// Portfolios returns the registered portfolios.
func (c *Client) Portfolios() []*Portfolio { return c.portfolios }
