package response

// PaymentIntentResponse amount is in minor units, as sent to the provider.
type PaymentIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
	Amount          int64  `json:"amount"`
}

type WebhookAck struct {
	Received bool `json:"received"`
}
