package bspay

// Payer identifies who pays a charge.
type Payer struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Email    string `json:"email"`
}

// Split routes a share of a charge to another gateway account.
type Split struct {
	Username        string `json:"username"`
	PercentageSplit string `json:"percentageSplit"`
}

type ChargeParams struct {
	Amount        float64 `json:"amount"`
	ExternalID    string  `json:"external_id"`
	PayerQuestion string  `json:"payerQuestion"`
	PostbackURL   string  `json:"postbackUrl"`
	Payer         Payer   `json:"payer"`
	Split         []Split `json:"split,omitempty"`
}

type ChargeResult struct {
	TransactionID string `json:"transactionId"`
	QRCode        string `json:"qrcode"`
}

// CreditParty is the receiver of a payout.
type CreditParty struct {
	Name    string `json:"name"`
	Key     string `json:"key"`
	KeyType string `json:"keyType"`
	TaxID   string `json:"taxId"`
}

type PayoutParams struct {
	Amount      float64     `json:"amount"`
	ExternalID  string      `json:"external_id"`
	Description string      `json:"description"`
	PostbackURL string      `json:"postbackUrl,omitempty"`
	CreditParty CreditParty `json:"creditParty"`
}

type PayoutResult struct {
	TransactionID string `json:"idTransaction"`
	Status        string `json:"status"`
}
