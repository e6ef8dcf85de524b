package navigation

// TrainerMenu is the trainer shell sidebar, in render order.
// Entries are not role-filtered; the shell itself is gated on the trainer role.
var TrainerMenu = []Entry{
	{Label: "Trainer Dashboard", Icon: IconHome, Destination: "/trainer/dashboard"},
	{Label: "My Members", Icon: IconUsers, Destination: "/trainer/members"},
	{Label: "Workout Plan Builder", Icon: IconFileText, Destination: "/trainer/workout-plans"},
	{Label: "Diet Plan Builder", Icon: IconSalad, Destination: "/trainer/diet-plans"},
	{Label: "My Profile", Icon: IconUserCircle, Destination: "/trainer/profile"},
}

// AdminMenu is the admin shell sidebar, in render order.
var AdminMenu = []Entry{
	{Label: "Dashboard", Icon: IconHome, Destination: "/admin/dashboard"},
	{Label: "Members", Icon: IconUsers, Destination: "/admin/members"},
	{Label: "Trainers", Icon: IconUserCheck, Destination: "/admin/trainers"},
	{Label: "Memberships", Icon: IconCreditCard, Destination: "/admin/memberships"},
	{Label: "Workout & Diet Plans", Icon: IconClipboardList, Destination: "/admin/plans"},
	{Label: "Equipment", Icon: IconTreadmill, Destination: "/admin/equipment"},
	{Label: "Attendance", Icon: IconCheckSquare, Destination: "/admin/attendance"},
	{Label: "Payments", Icon: IconReceipt, Destination: "/admin/payments"},
}

// LandingMenu is the public navbar, in render order. Destinations are
// landing page sections, so no entry is ever active. They carry the path so
// that following one from "/?menu=open" leaves the menu closed.
var LandingMenu = []Entry{
	{Label: "Features", Destination: "/#features"},
	{Label: "Pricing", Destination: "/#pricing"},
	{Label: "About", Destination: "/#about"},
	{Label: "Contact", Destination: "/#contact"},
}

// Find returns the entry whose destination is path.
func Find(entries []Entry, path string) (Entry, bool) {
	for _, e := range entries {
		if trimSlash(e.Destination) == trimSlash(path) {
			return e, true
		}
	}
	return Entry{}, false
}
