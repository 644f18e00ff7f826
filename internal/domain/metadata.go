package domain

import "encoding/json"

// ParticipantMetadata is the JSON object attached to a participant at
// join time, or updated later via a metadata-changed signal. All keys
// are optional.
type ParticipantMetadata struct {
	ProductQuery string `json:"product_query,omitempty"`
	UserName     string `json:"user_name,omitempty"`
	UserEmail    string `json:"user_email,omitempty"`
}

// ParseParticipantMetadata decodes raw participant metadata. An empty
// payload yields the zero value without error; malformed JSON is an
// error the caller treats as absent context.
func ParseParticipantMetadata(raw string) (ParticipantMetadata, error) {
	var md ParticipantMetadata
	if raw == "" {
		return md, nil
	}
	if err := json.Unmarshal([]byte(raw), &md); err != nil {
		return ParticipantMetadata{}, err
	}
	return md, nil
}
