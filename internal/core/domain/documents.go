package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FlexString decodes from either a JSON string or a JSON number. The document API
// returns decimal columns as strings and integer columns as numbers.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = FlexString(n.String())
	return nil
}

func (s FlexString) String() string {
	return string(s)
}

// OpportunityRef is the opportunity reference carried by document resources.
// The API returns either the plain identifier or a nested object with ghl_id.
type OpportunityRef string

func (r *OpportunityRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = ""
		return nil
	}
	if len(b) > 0 && b[0] == '{' {
		var nested struct {
			GHLID FlexString `json:"ghl_id"`
			ID    FlexString `json:"id"`
		}
		if err := json.Unmarshal(b, &nested); err != nil {
			return err
		}
		if nested.GHLID != "" {
			*r = OpportunityRef(nested.GHLID)
		} else {
			*r = OpportunityRef(nested.ID)
		}
		return nil
	}
	var s FlexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	*r = OpportunityRef(s)
	return nil
}

// Matches reports whether the reference points at opportunityID.
func (r OpportunityRef) Matches(opportunityID string) bool {
	return r != "" && strings.EqualFold(string(r), opportunityID)
}

// TermSheet is the termdata resource for an opportunity.
type TermSheet struct {
	ID                   FlexString     `json:"id,omitempty"`
	Opportunity          OpportunityRef `json:"opportunity"`
	Borrower             string         `json:"borrower"`
	PropertyAddress      string         `json:"property_address"`
	LoanPurpose          string         `json:"loan_purpose"`
	LoanAmount           FlexString     `json:"loan_amount" validate:"omitempty,money"`
	LoanToValue          FlexString     `json:"loan_to_value" validate:"omitempty,money"`
	AsIsValue            FlexString     `json:"as_is_value" validate:"omitempty,money"`
	RehabCost            FlexString     `json:"rehab_cost" validate:"omitempty,money"`
	AfterRepairedValue   FlexString     `json:"after_repaired_value" validate:"omitempty,money"`
	LoanType             string         `json:"loan_type"`
	InterestRate         FlexString     `json:"interest_rate" validate:"omitempty,money"`
	MonthlyPayment       FlexString     `json:"monthly_payment" validate:"omitempty,money"`
	PrepaymentPenalty    string         `json:"prepayment_penalty"`
	OriginationCost      FlexString     `json:"origination_cost" validate:"omitempty,money"`
	LenderFee            FlexString     `json:"lender_fee" validate:"omitempty,money"`
	ProcessingFee        FlexString     `json:"processing_fee" validate:"omitempty,money"`
	CashToFromBorrower   FlexString     `json:"cash_to_from_borrower" validate:"omitempty,money"`
	AdditionalLiquidity  string         `json:"additional_liquidity"`
	PropertyType         string         `json:"property_type"`
	FicoScore            FlexString     `json:"fico_score" validate:"omitempty,money"`
	FairMarketRent       FlexString     `json:"fair_market_rent" validate:"omitempty,money"`
	PropertyDesignation  string         `json:"property_designation"`
	BankruptcyLast3Yrs   string         `json:"bankruptcy_last_3yrs"`
	ForeclosuresLast3Yrs string         `json:"foreclosures_last_3yrs"`
	FeloniesCrimes       string         `json:"felonies_crimes"`
	AnnualTaxes          FlexString     `json:"annual_taxes" validate:"omitempty,money"`
	AnnualInsurance      FlexString     `json:"annual_insurance" validate:"omitempty,money"`
	AnnualFloodInsurance FlexString     `json:"annual_flood_insurance" validate:"omitempty,money"`
	AnnualHoaDues        FlexString     `json:"annual_hoa_dues" validate:"omitempty,money"`
	CurrentDscr          FlexString     `json:"current_dscr" validate:"omitempty,money"`
	PDFURL               string         `json:"pdf_url,omitempty"`
}

// PreApproval is the pre-qualification letter resource for an opportunity.
type PreApproval struct {
	ID            FlexString     `json:"id,omitempty"`
	Opportunity   OpportunityRef `json:"opportunity"`
	Date          string         `json:"date" validate:"omitempty,datetime=2006-01-02"`
	LLCName       string         `json:"llc_name"`
	Address       string         `json:"address"`
	PurchasePrice FlexString     `json:"purchase_price" validate:"omitempty,money"`
	LoanType      string         `json:"loan_type"`
	LoanTerm      string         `json:"loan_term"`
	LoanAmount    FlexString     `json:"loan_amount" validate:"omitempty,money"`
	RateAPR       FlexString     `json:"rate_apr"`
	Occupancy     string         `json:"occupancy"`
	Applicant     string         `json:"applicant"`
	AssignedTo    string         `json:"assigned_to"`
	PDFURL        string         `json:"pdf_url,omitempty"`
}

// GeneratedPDF is the document API's answer to a PDF generation request.
type GeneratedPDF struct {
	PDFURL  string `json:"pdf_url,omitempty"`
	Message string `json:"message,omitempty"`
}

// DocumentResult is the normalized outcome of a document operation. Errors never
// escape the document service; they are folded into Success=false and Message.
type DocumentResult[T any] struct {
	Success  bool   `json:"success"`
	Data     *T     `json:"data,omitempty"`
	Message  string `json:"message,omitempty"`
	NotFound bool   `json:"notFound,omitempty"`

	// Err keeps the classified cause so transports can pick a status code.
	Err error `json:"-"`
}
