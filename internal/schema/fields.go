package schema

// Convention field names shared by the resource-editor schema, the
// derived filters, and the dashboards. Field names carry spaces because
// they double as display keys in imported spreadsheets.
const (
	FieldFirstName  = "First name"
	FieldLastName   = "Last name"
	FieldFullName   = "fullName" // computed, never stored
	FieldManager    = "Line Manager"
	FieldAllocation = "% Allocation"
	FieldProject    = "Project"
	FieldOpenAirID  = "Open Air ID"
	FieldLocation   = "Location"
	FieldStream     = "Stream"
	FieldTechSkills = "Tech Skills"
	FieldJobTitle   = "Job Title"
	FieldContract   = "Contract / Perm"
	FieldBillable   = "Billable"
	FieldEndDate    = "Resource End date"
	FieldCountdown  = "Countdown"
	FieldNotes      = "Notes"
)

// Streams is the closed set of engineering streams.
var Streams = []string{"QA", "Backend", "Frontend"}

// ContractTypes is the closed set of contract kinds: P(ermanent) and
// C(ontract).
var ContractTypes = []string{"P", "C"}

// RequiredFields must be non-empty before a record may be submitted.
var RequiredFields = []string{FieldFirstName, FieldLastName}

// Default returns the built-in resource-editor schema used when no
// saved or remote schema is available and a full employee shape is
// wanted.
func Default() Schema {
	return Schema{
		Title: "Resources",
		Fields: []FieldSpec{
			{Name: FieldFirstName, Label: "First Name", Type: FieldText},
			{Name: FieldLastName, Label: "Last Name", Type: FieldText},
			{Name: FieldManager, Label: "Line Manager", Type: FieldText},
			{Name: FieldAllocation, Label: "Allocation %", Type: FieldNumber},
			{Name: FieldProject, Label: "Project", Type: FieldText},
			{Name: FieldOpenAirID, Label: "Open Air ID (comma-separated)", Type: FieldArray},
			{Name: FieldLocation, Label: "Location", Type: FieldText},
			{Name: FieldStream, Label: "Stream", Type: FieldText},
			{Name: FieldTechSkills, Label: "Tech Skills (comma-separated)", Type: FieldArray},
			{Name: FieldJobTitle, Label: "Job Title", Type: FieldText},
			{Name: FieldContract, Label: "Contract / Perm", Type: FieldText},
			{Name: FieldBillable, Label: "Billable", Type: FieldText},
			{Name: FieldEndDate, Label: "End Date", Type: FieldDate},
			{Name: FieldCountdown, Label: "Countdown", Type: FieldNumber},
			{Name: FieldNotes, Label: "Notes", Type: FieldText},
		},
	}
}

// Fallback returns the minimal generic schema used as the last resort
// of the load chain.
func Fallback() Schema {
	return Schema{
		Title: "Default Schema",
		Fields: []FieldSpec{
			{Name: "name", Label: "Name", Type: FieldText},
			{Name: "amount", Label: "Amount", Type: FieldNumber},
			{Name: "category", Label: "Category", Type: FieldText},
		},
	}
}
