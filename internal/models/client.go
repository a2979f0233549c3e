package models

// ClientStatus classifies a client account.
type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
	ClientProspect ClientStatus = "prospect"
)

// Client is a customer account managed through the console.
type Client struct {
	Meta
	Name    string       `json:"name"`
	Email   string       `json:"email"`
	Phone   string       `json:"phone"`
	Company string       `json:"company"`
	Status  ClientStatus `json:"status"`
}

// WithMeta returns a copy of the client with its meta replaced.
func (c Client) WithMeta(m Meta) Client {
	c.Meta = m
	return c
}

func (c Client) Validate() error {
	if c.Name == "" {
		return ErrNameRequired
	}
	if c.Email == "" {
		return ErrEmailRequired
	}
	return nil
}

// SearchFields lists the values matched by the console's substring search.
func (c Client) SearchFields() []string {
	return []string{c.Name, c.Email, c.Company}
}
