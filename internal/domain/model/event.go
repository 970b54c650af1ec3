// Package model contains the calendar domain types passed between layers.
package model

// dayKeyLen is the length of the YYYY-MM-DD prefix of an ISO-8601
// timestamp.
const dayKeyLen = 10

// Event is one calendar entry. JSON field names mirror the wire contract
// shared with the generator backend, so an Event round-trips unchanged
// through a generator exchange.
type Event struct {
	Title          string `json:"title"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	Location       string `json:"location,omitempty"`
	Notes          string `json:"notes,omitempty"`
	Calendar       string `json:"calendar,omitempty"`
	URL            string `json:"url,omitempty"`
	OrganizerName  string `json:"organizerName,omitempty"`
	OrganizerEmail string `json:"organizerEmail,omitempty"`
	IsAllDay       bool   `json:"isAllDay"`
}

// Day returns the calendar-date key the event belongs to: the first ten
// characters of StartDate. A shorter StartDate yields the full string;
// callers must not assume the key is a well-formed date.
func (e Event) Day() string {
	if len(e.StartDate) < dayKeyLen {
		return e.StartDate
	}
	return e.StartDate[:dayKeyLen]
}

// Validate checks the required fields of an Event.
func (e Event) Validate() error {
	switch {
	case e.Title == "":
		return &ValidationError{Field: "title"}
	case e.StartDate == "":
		return &ValidationError{Field: "startDate"}
	case e.EndDate == "":
		return &ValidationError{Field: "endDate"}
	}
	return nil
}

// ValidateAll checks every event in a week payload before any dispatch
// work begins.
func ValidateAll(events []Event) error {
	for i := range events {
		if err := events[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SimpleEvent is the restricted projection of Event used for
// question-answering, where full metadata is unnecessary.
type SimpleEvent struct {
	Title     string `json:"title"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Validate checks the required fields of a SimpleEvent.
func (e SimpleEvent) Validate() error {
	switch {
	case e.Title == "":
		return &ValidationError{Field: "title"}
	case e.StartDate == "":
		return &ValidationError{Field: "startDate"}
	case e.EndDate == "":
		return &ValidationError{Field: "endDate"}
	}
	return nil
}

// AskRequest carries one schedule question and the events it is about.
// Constructed per inbound request and discarded after the single turn.
type AskRequest struct {
	Question string        `json:"question"`
	Events   []SimpleEvent `json:"events"`
}

// Validate checks the request and every embedded event.
func (r AskRequest) Validate() error {
	if r.Question == "" {
		return &ValidationError{Field: "question"}
	}
	for i := range r.Events {
		if err := r.Events[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
