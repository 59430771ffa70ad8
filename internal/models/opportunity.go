package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Opportunity is the wire shape of an opportunity as served by opportunities_v2.
type Opportunity struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	OpportunityName   string    `json:"opportunityName"`
	BusinessName      string    `json:"businessName"`
	Lender            string    `json:"lender"`
	Pipeline          string    `json:"pipeline"`
	PipelineStage     string    `json:"pipelineStage"`
	Stage             string    `json:"stage"`
	LoanType          string    `json:"loan_type"`
	AssignedUser      string    `json:"assignedUser"`
	Followers         []string  `json:"followers"`
	MonetaryValue     Money     `json:"monetaryValue"`
	ActualClosingDate *string   `json:"actualClosingDate"`
	DealNotes         string    `json:"dealNotes"`
	AppraisalNotes    string    `json:"appraisalNotes"`
	InsuranceNotes    string    `json:"insuranceNotes"`
	TitleNotes        string    `json:"titleNotes"`
	FollowUpFriday    bool      `json:"followUpFriday"`
	Extra             ExtraAttr `json:"-"`
}

// ExtraAttr holds attributes the dashboard does not model.
type ExtraAttr map[string]any

// opportunityAlias drops the methods so the default codec can be reused.
type opportunityAlias Opportunity

var knownKeys = map[string]struct{}{
	"id": {}, "name": {}, "opportunityName": {}, "businessName": {}, "lender": {},
	"pipeline": {}, "pipelineStage": {}, "stage": {}, "loan_type": {}, "assignedUser": {},
	"followers": {}, "monetaryValue": {}, "actualClosingDate": {}, "dealNotes": {},
	"appraisalNotes": {}, "insuranceNotes": {}, "titleNotes": {}, "followUpFriday": {},
}

func (o *Opportunity) UnmarshalJSON(b []byte) error {
	var known opportunityAlias
	if err := json.Unmarshal(b, &known); err != nil {
		return err
	}
	var all map[string]any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&all); err != nil {
		return err
	}
	*o = Opportunity(known)
	for k, v := range all {
		if _, ok := knownKeys[k]; ok {
			continue
		}
		if o.Extra == nil {
			o.Extra = ExtraAttr{}
		}
		o.Extra[k] = v
	}
	return nil
}

func (o Opportunity) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(opportunityAlias(o))
	if err != nil {
		return nil, err
	}
	if len(o.Extra) == 0 {
		return known, nil
	}
	merged := make(map[string]any, len(o.Extra)+len(knownKeys))
	for k, v := range o.Extra {
		merged[k] = v
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// Money is a lenient monetary amount. The CRM sends numbers, numeric strings, or
// formatted strings such as "$1,250,000"; empty values decode as invalid.
type Money struct {
	decimal.NullDecimal
}

// ParseMoney strips currency formatting and parses the amount.
func ParseMoney(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(s))
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}
	return decimal.NewFromString(cleaned)
}

func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		m.NullDecimal = decimal.NullDecimal{}
		return nil
	}
	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		if strings.TrimSpace(raw) == "" {
			m.NullDecimal = decimal.NullDecimal{}
			return nil
		}
	}
	d, err := ParseMoney(raw)
	if err != nil {
		return fmt.Errorf("invalid monetary value %q: %w", raw, err)
	}
	m.NullDecimal = decimal.NewNullDecimal(d)
	return nil
}

func (m Money) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return m.Decimal.MarshalJSON()
}

// UpdateCustomFieldsRequest is the body of POST /update_custom_fields_v2/.
type UpdateCustomFieldsRequest struct {
	ID       string         `json:"id"`
	Pipeline string         `json:"pipeline"`
	Updates  map[string]any `json:"updates"`
}

// PipelineCatalog is the body of GET /unique_pipeline_names_v2/: a list of
// single-key objects mapping a pipeline name to its stages.
type PipelineCatalog struct {
	Pipelines []map[string][]PipelineStage `json:"pipelines"`
}

// PipelineStage is a stage entry in the pipeline catalog.
type PipelineStage struct {
	ID   FlexID `json:"id"`
	Name string `json:"name"`
}

// FlexID accepts string or numeric identifiers.
type FlexID string

func (f *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	*f = FlexID(string(b))
	return nil
}

// APIErrorBody is the error envelope the backend returns on failure.
type APIErrorBody struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
	Error   string `json:"error"`
}

// OpportunityList decodes either a bare array of opportunities or a paginated
// envelope of the form {"results": [...]}.
type OpportunityList []Opportunity

func (l *OpportunityList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var envelope struct {
			Results []Opportunity `json:"results"`
		}
		if err := json.Unmarshal(b, &envelope); err != nil {
			return err
		}
		*l = envelope.Results
		return nil
	}
	var list []Opportunity
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*l = list
	return nil
}
