package employee

import "github.com/frahmantamala/leave-management/internal/ledger"

// DefaultAllotments is what a seeded employee starts the year with.
var DefaultAllotments = ledger.Allotments{
	Casual: 12,
	Sick:   10,
	Earned: 15,
}

func ref(id int64) *int64 { return &id }

// Roster returns the organisation's starting directory. Managers always
// appear before the people reporting to them.
func Roster() []*Employee {
	roster := []*Employee{
		{ID: 1, Name: "Hari Seedhar", Email: "h@soenaudio.com", Role: RoleOwner},
		{ID: 2, Name: "Daniel Kissel", Email: "daniel@soenaudio.com", Role: RoleOwner},
		{ID: 3, Name: "Glen Walters", Email: "glen@soenaudio.com", Role: RoleOwner},
		{ID: 4, Name: "Rajesh Murali", Email: "rajesh@soenaudio.com", Role: RoleAdmin, ManagerID: ref(1)},
		{ID: 5, Name: "Sanket Mahadik", Email: "sanket@soenaudio.com", Role: RoleEmployee, ManagerID: ref(4)},
		{ID: 6, Name: "Chindan Thiyagarajan", Email: "chindan@soenaudio.com", Role: RoleEmployee, ManagerID: ref(4)},
		{ID: 7, Name: "Upendra Kagana", Email: "upendra@soenaudio.com", Role: RoleEmployee, ManagerID: ref(4)},
		{ID: 8, Name: "John Verma", Email: "john@soenaudio.com", Role: RoleEmployee, ManagerID: ref(4)},
		{ID: 9, Name: "Rick", Email: "rick@soenaudio.com", Role: RoleEmployee, ManagerID: ref(1)},
		{ID: 10, Name: "Bruce Ryan", Email: "bruce@soenaudio.com", Role: RoleEmployee, ManagerID: ref(1)},
		{ID: 11, Name: "Nikki", Email: "nikki@soenaudio.com", Role: RoleEmployee, ManagerID: ref(1)},
		{ID: 12, Name: "Andy Yang", Email: "andy@soenaudio.com", Role: RoleEmployee, ManagerID: ref(2)},
		{ID: 13, Name: "Jacky Wu", Email: "jacky@soenaudio.com", Role: RoleEmployee, ManagerID: ref(2)},
	}
	for _, e := range roster {
		e.SetAllotments(DefaultAllotments)
	}
	return roster
}
