package leavetype

// LeaveType is one of the fixed categories an application may be filed under.
type LeaveType struct {
	Code        string `json:"code"`
	Label       string `json:"label"`
	Description string `json:"description"`
	// AllotmentField names the employee allotment the category draws on.
	AllotmentField string `json:"allotment_field"`
}

const (
	Casual          = "Casual Leave"
	Sick            = "Sick Leave"
	Earned          = "Earned Leave"
	Privilege       = "Privilege Leave"
	Maternity       = "Maternity Leave"
	Paternity       = "Paternity Leave"
	CompensatoryOff = "Compensatory Off"
	WithoutPay      = "Leave Without Pay"
)

var all = []LeaveType{
	{Code: "CL", Label: Casual, Description: "Short personal absences", AllotmentField: "casual"},
	{Code: "SL", Label: Sick, Description: "Illness or medical appointments", AllotmentField: "sick"},
	{Code: "EL", Label: Earned, Description: "Leave accrued through service", AllotmentField: "earned"},
	{Code: "PL", Label: Privilege, Description: "Planned vacation", AllotmentField: "privilege"},
	{Code: "ML", Label: Maternity, Description: "Maternity leave", AllotmentField: "maternity"},
	{Code: "PTL", Label: Paternity, Description: "Paternity leave", AllotmentField: "paternity"},
	{Code: "CO", Label: CompensatoryOff, Description: "Time off in lieu of extra hours worked", AllotmentField: "compensatory_off"},
	{Code: "LWP", Label: WithoutPay, Description: "Unpaid leave", AllotmentField: "leave_without_pay"},
}

// All returns a copy of the categories in display order.
func All() []LeaveType {
	out := make([]LeaveType, len(all))
	copy(out, all)
	return out
}

func Lookup(label string) (LeaveType, bool) {
	for _, lt := range all {
		if lt.Label == label {
			return lt, true
		}
	}
	return LeaveType{}, false
}

func IsValid(label string) bool {
	_, ok := Lookup(label)
	return ok
}
