package domain

type Provider string

const (
	ProviderOCID Provider = "ocid"
)

// AuthPayload is the claim set carried by app tokens.
type AuthPayload struct {
	OCId       string `json:"OCId"`
	EthAddress string `json:"eth_address,omitempty"`
}

type LoginResponse struct {
	Token      string `json:"token"`
	OCId       string `json:"OCId"`
	EthAddress string `json:"ethAddress,omitempty"`
}
