package models

// Team groups employees under a lead.
type Team struct {
	Meta
	Name        string `json:"name"`
	Description string `json:"description"`
	LeadID      string `json:"leadId"`
}

func (t Team) WithMeta(m Meta) Team {
	t.Meta = m
	return t
}

func (t Team) Validate() error {
	if t.Name == "" {
		return ErrNameRequired
	}
	return nil
}

func (t Team) SearchFields() []string {
	return []string{t.Name, t.Description}
}
