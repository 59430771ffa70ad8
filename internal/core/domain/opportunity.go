package domain

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Opportunity is a loan deal record as held by the dashboard.
// Values are treated as immutable once published to the record store: every
// mutation goes through With/Clone and produces a new value.
type Opportunity struct {
	ID                string
	Name              string
	OpportunityName   string
	BusinessName      string
	Lender            string
	Pipeline          string
	PipelineStage     string
	Stage             string
	LoanType          string
	AssignedUser      string
	Followers         []string
	MonetaryValue     decimal.NullDecimal
	ActualClosingDate *Date
	DealNotes         string
	AppraisalNotes    string
	InsuranceNotes    string
	TitleNotes        string
	FollowUpFriday    bool

	// Extra holds any attribute the backend sent that the dashboard does not model.
	// It takes part in free-text search and is echoed back to clients untouched.
	Extra map[string]any
}

// FieldName names an opportunity attribute using its wire (JSON) key.
type FieldName string

const (
	FieldID                FieldName = "id"
	FieldContactName       FieldName = "name"
	FieldOpportunityName   FieldName = "opportunityName"
	FieldBusinessName      FieldName = "businessName"
	FieldLender            FieldName = "lender"
	FieldPipeline          FieldName = "pipeline"
	FieldPipelineStage     FieldName = "pipelineStage"
	FieldStage             FieldName = "stage"
	FieldLoanType          FieldName = "loan_type"
	FieldAssignedUser      FieldName = "assignedUser"
	FieldFollowers         FieldName = "followers"
	FieldMonetaryValue     FieldName = "monetaryValue"
	FieldActualClosingDate FieldName = "actualClosingDate"
	FieldDealNotes         FieldName = "dealNotes"
	FieldAppraisalNotes    FieldName = "appraisalNotes"
	FieldInsuranceNotes    FieldName = "insuranceNotes"
	FieldTitleNotes        FieldName = "titleNotes"
	FieldFollowUpFriday    FieldName = "followUpFriday"

	// FieldPipelineStageID is send-only: it accompanies a pipelineStage change so the
	// backend can reference the stage by identifier. It is never merged locally.
	FieldPipelineStageID FieldName = "pipelineStageId"
)

// EditableFields is the allow-list of fields an edit session may change.
var EditableFields = []FieldName{
	FieldPipelineStage,
	FieldStage,
	FieldActualClosingDate,
	FieldFollowUpFriday,
	FieldDealNotes,
	FieldAppraisalNotes,
	FieldInsuranceNotes,
	FieldTitleNotes,
}

// UpdatableFields are the fields the backend's custom-field update accepts.
var UpdatableFields = append(slices.Clone(EditableFields), FieldFollowers)

// KnownFields lists every modelled attribute, in display order.
var KnownFields = []FieldName{
	FieldID, FieldContactName, FieldOpportunityName, FieldBusinessName, FieldLender,
	FieldPipeline, FieldPipelineStage, FieldStage, FieldLoanType, FieldAssignedUser,
	FieldFollowers, FieldMonetaryValue, FieldActualClosingDate, FieldDealNotes,
	FieldAppraisalNotes, FieldInsuranceNotes, FieldTitleNotes, FieldFollowUpFriday,
}

// IsEditable reports whether f is on the edit-session allow-list.
func IsEditable(f FieldName) bool {
	return slices.Contains(EditableFields, f)
}

// IsUpdatable reports whether f may be sent to the custom-field update endpoint.
func IsUpdatable(f FieldName) bool {
	return slices.Contains(UpdatableFields, f)
}

// IsKnownField reports whether f is a modelled attribute.
func IsKnownField(f FieldName) bool {
	return slices.Contains(KnownFields, f)
}

// Clone returns a deep copy.
func (o *Opportunity) Clone() *Opportunity {
	if o == nil {
		return nil
	}
	c := *o
	c.Followers = slices.Clone(o.Followers)
	if o.ActualClosingDate != nil {
		c.ActualClosingDate = o.ActualClosingDate.Ptr()
	}
	if o.Extra != nil {
		c.Extra = make(map[string]any, len(o.Extra))
		for k, v := range o.Extra {
			c.Extra[k] = v
		}
	}
	return &c
}

// HasFollowers reports whether at least one follower is assigned.
func (o *Opportunity) HasFollowers() bool {
	return len(o.Followers) > 0
}

// Get returns the normalized value of an updatable field:
// string for text fields, *Date for actualClosingDate, bool for followUpFriday
// and []string for followers.
func (o *Opportunity) Get(f FieldName) (any, error) {
	switch f {
	case FieldPipelineStage:
		return o.PipelineStage, nil
	case FieldStage:
		return o.Stage, nil
	case FieldActualClosingDate:
		return o.ActualClosingDate, nil
	case FieldFollowUpFriday:
		return o.FollowUpFriday, nil
	case FieldDealNotes:
		return o.DealNotes, nil
	case FieldAppraisalNotes:
		return o.AppraisalNotes, nil
	case FieldInsuranceNotes:
		return o.InsuranceNotes, nil
	case FieldTitleNotes:
		return o.TitleNotes, nil
	case FieldFollowers:
		return o.Followers, nil
	}
	return nil, fmt.Errorf("field %q is not updatable", f)
}

// With returns a copy of o with field f set to value. value must already be
// normalized (see NormalizeFieldValue).
func (o *Opportunity) With(f FieldName, value any) (*Opportunity, error) {
	c := o.Clone()
	if err := c.set(f, value); err != nil {
		return nil, err
	}
	return c, nil
}

func (o *Opportunity) set(f FieldName, value any) error {
	switch f {
	case FieldActualClosingDate:
		d, ok := value.(*Date)
		if !ok && value != nil {
			return fmt.Errorf("field %q expects a date, got %T", f, value)
		}
		if d != nil {
			d = d.Ptr()
		}
		o.ActualClosingDate = d
		return nil
	case FieldFollowUpFriday:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("field %q expects a boolean, got %T", f, value)
		}
		o.FollowUpFriday = b
		return nil
	case FieldFollowers:
		fs, ok := value.([]string)
		if !ok && value != nil {
			return fmt.Errorf("field %q expects a list of strings, got %T", f, value)
		}
		o.Followers = slices.Clone(fs)
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("field %q expects a string, got %T", f, value)
	}
	switch f {
	case FieldPipelineStage:
		o.PipelineStage = s
	case FieldStage:
		o.Stage = s
	case FieldDealNotes:
		o.DealNotes = s
	case FieldAppraisalNotes:
		o.AppraisalNotes = s
	case FieldInsuranceNotes:
		o.InsuranceNotes = s
	case FieldTitleNotes:
		o.TitleNotes = s
	default:
		return fmt.Errorf("field %q is not updatable", f)
	}
	return nil
}

// StringValue returns the string representation of any modelled field, or of an
// Extra attribute. The boolean is false when the record does not carry the field.
func (o *Opportunity) StringValue(f FieldName) (string, bool) {
	switch f {
	case FieldID:
		return o.ID, o.ID != ""
	case FieldContactName:
		return o.Name, o.Name != ""
	case FieldOpportunityName:
		return o.OpportunityName, o.OpportunityName != ""
	case FieldBusinessName:
		return o.BusinessName, o.BusinessName != ""
	case FieldLender:
		return o.Lender, o.Lender != ""
	case FieldPipeline:
		return o.Pipeline, o.Pipeline != ""
	case FieldPipelineStage:
		return o.PipelineStage, o.PipelineStage != ""
	case FieldStage:
		return o.Stage, o.Stage != ""
	case FieldLoanType:
		return o.LoanType, o.LoanType != ""
	case FieldAssignedUser:
		return o.AssignedUser, o.AssignedUser != ""
	case FieldFollowers:
		return strings.Join(o.Followers, ","), len(o.Followers) > 0
	case FieldMonetaryValue:
		if !o.MonetaryValue.Valid {
			return "", false
		}
		return o.MonetaryValue.Decimal.String(), true
	case FieldActualClosingDate:
		if o.ActualClosingDate == nil {
			return "", false
		}
		return o.ActualClosingDate.String(), true
	case FieldDealNotes:
		return o.DealNotes, o.DealNotes != ""
	case FieldAppraisalNotes:
		return o.AppraisalNotes, o.AppraisalNotes != ""
	case FieldInsuranceNotes:
		return o.InsuranceNotes, o.InsuranceNotes != ""
	case FieldTitleNotes:
		return o.TitleNotes, o.TitleNotes != ""
	case FieldFollowUpFriday:
		return strconv.FormatBool(o.FollowUpFriday), true
	}
	v, ok := o.Extra[string(f)]
	if !ok || v == nil {
		return "", false
	}
	return fmt.Sprint(v), true
}

// SearchValues returns the string representation of every attribute the record carries.
func (o *Opportunity) SearchValues() []string {
	values := make([]string, 0, len(KnownFields)+len(o.Extra))
	for _, f := range KnownFields {
		if s, ok := o.StringValue(f); ok {
			values = append(values, s)
		}
	}
	for k := range o.Extra {
		if s, ok := o.StringValue(FieldName(k)); ok {
			values = append(values, s)
		}
	}
	return values
}
