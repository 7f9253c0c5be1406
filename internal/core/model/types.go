package model

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// ID is an entity identifier. The backend emits integer row ids for most
// collections and strings for some, so both encodings are accepted.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	var num int64
	if err := sonic.Unmarshal(data, &num); err == nil {
		*id = ID(strconv.FormatInt(num, 10))
		return nil
	}

	var str string
	if err := sonic.Unmarshal(data, &str); err == nil {
		*id = ID(str)
		return nil
	}

	return fmt.Errorf("id must be either a number or a string, got %s", string(data))
}

func (id ID) String() string {
	return string(id)
}

// Card is a single content item shown in the gallery.
type Card struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Date        string `json:"date"`
	Media       string `json:"media,omitempty"`
}

// Path is the page a card navigates to when opened.
func (c Card) Path() string {
	return "/cards/" + url.PathEscape(c.Type) + "/" + url.PathEscape(c.ID.String())
}

// TimelineEvent is the summary representation returned by the event list.
type TimelineEvent struct {
	ID   ID     `json:"id"`
	Type string `json:"type"`
	Date string `json:"date"`
}

// DetailPath is the API path of the event's detail record.
func (e TimelineEvent) DetailPath() string {
	return "/api/timeline/" + url.PathEscape(e.Type) + "/" + url.PathEscape(e.ID.String())
}

// Label is a short text for the event.
func (e TimelineEvent) Label() string {
	return strings.TrimSpace(fmt.Sprintf("%s #%s %s", e.Type, e.ID, e.Date))
}

// EventDetail is the detail record fetched for one timeline event.
type EventDetail struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Media       string `json:"media,omitempty"`
}

// AnswerRequest is the body posted to the interview answer endpoint.
type AnswerRequest struct {
	Answer string `json:"answer"`
}

// AnswerResponse covers both the success and the rejection body.
type AnswerResponse struct {
	FollowUpQuestions []string `json:"follow_up_questions,omitempty"`
	Error             string   `json:"error,omitempty"`
}
