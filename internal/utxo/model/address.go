package model

// AddressSummary is the address view. Every monetary field is paired as a coin
// float and integer satoshis. The misspelled appearance fields are part of the
// public API shape.
type AddressSummary struct {
	AddrStr                string   `json:"addrStr"`
	Balance                float64  `json:"balance"`
	BalanceSat             int64    `json:"balanceSat"`
	TotalReceived          float64  `json:"totalReceived"`
	TotalReceivedSat       int64    `json:"totalReceivedSat"`
	TotalSent              float64  `json:"totalSent"`
	TotalSentSat           int64    `json:"totalSentSat"`
	UnconfirmedBalance     float64  `json:"unconfirmedBalance"`
	UnconfirmedBalanceSat  int64    `json:"unconfirmedBalanceSat"`
	UnconfirmedAppearances int      `json:"unconfirmedTxApperances"`
	Appearances            int      `json:"txApperances"`
	Transactions           []string `json:"transactions,omitempty"`
	WSP1                   *KeyInfo `json:"wsp1,omitempty"`
	WSP2                   *KeyInfo `json:"wsp2,omitempty"`
}
