package types

// Address is the delivery or invoice address captured at checkout.
type Address struct {
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city" validate:"required"`
	District   string `json:"district,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// CustomerInfo is the contact and address block snapshotted onto an order.
type CustomerInfo struct {
	FullName        string   `json:"full_name" validate:"required"`
	Email           string   `json:"email" validate:"required,email"`
	Phone           string   `json:"phone" validate:"required"`
	DeliveryAddress Address  `json:"delivery_address" validate:"required"`
	InvoiceAddress  *Address `json:"invoice_address,omitempty"`
}

// JobCustomer identifies the customer a service job is performed for.
type JobCustomer struct {
	FullName string  `json:"full_name" validate:"required"`
	Phone    string  `json:"phone" validate:"required"`
	Phone2   *string `json:"phone2,omitempty"`
}
