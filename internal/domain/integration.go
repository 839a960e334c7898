package domain

import "time"

// Supported provider identifiers. Adding a provider means adding one
// adapter and one registry entry; nothing else changes.
const (
	ProviderMailchimp   = "mailchimp"
	ProviderGetResponse = "getresponse"
)

// Integration represents one stored credential set bound to an ESP provider.
// Records are created once, after a successful credential validation, and are
// read-only thereafter.
type Integration struct {
	ID        string         `json:"id" bson:"id"`
	Provider  string         `json:"provider" bson:"provider"`
	APIKey    string         `json:"apiKey" bson:"apiKey"`
	Validated bool           `json:"validated" bson:"validated"`
	Meta      map[string]any `json:"meta" bson:"meta"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt"`
}

// List is a provider-agnostic audience or campaign.
type List struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MemberCount *int   `json:"member_count,omitempty"`
}

// Contact is a provider-agnostic subscriber.
type Contact struct {
	ID     string `json:"id"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	Status string `json:"status,omitempty"`
}

// ValidationResult is what a provider adapter returns from a successful
// credential check. Meta carries provider-specific data resolved during
// validation (data center, account summary).
type ValidationResult struct {
	Valid bool
	Meta  map[string]any
}
