package role

const (
	Admin  = "admin"
	Doctor = "doctor"
	Nurse  = "nurse"
)

type Privilege struct {
	Resource string
	Actions  []string
}

type Role struct {
	RoleName   string
	RoleCode   string
	Privileges []Privilege
}

// Roles is the capability table consulted by the Authorize middleware.
var Roles = map[string]Role{
	Admin: {
		RoleName: "Hospital Admin",
		RoleCode: Admin,
		Privileges: []Privilege{
			{Resource: "patient", Actions: []string{"create", "view", "update"}},
			{Resource: "admission", Actions: []string{"create", "assignDoctor"}},
			{Resource: "section", Actions: []string{"create", "view"}},
			{Resource: "ward", Actions: []string{"create", "view", "sync", "assignNurse"}},
			{Resource: "emergencyMedication", Actions: []string{"view", "review"}},
			{Resource: "labReport", Actions: []string{"create"}},
			{Resource: "history", Actions: []string{"view"}},
			{Resource: "archival", Actions: []string{"reconcile"}},
			{Resource: "file", Actions: []string{"view"}},
		},
	},
	Doctor: {
		RoleName: "Doctor",
		RoleCode: Doctor,
		Privileges: []Privilege{
			{Resource: "patient", Actions: []string{"view"}},
			{Resource: "admission", Actions: []string{"promote", "assignBed", "clinical", "dischargeCondition", "amount", "discharge"}},
			{Resource: "treatment", Actions: []string{"order", "delete"}},
			{Resource: "dischargeSummary", Actions: []string{"preview", "confirm"}},
			{Resource: "investigation", Actions: []string{"create", "view"}},
			{Resource: "emergencyMedication", Actions: []string{"decide"}},
			{Resource: "history", Actions: []string{"view"}},
			{Resource: "file", Actions: []string{"view"}},
		},
	},
	Nurse: {
		RoleName: "Nurse",
		RoleCode: Nurse,
		Privileges: []Privilege{
			{Resource: "ward", Actions: []string{"view"}},
			{Resource: "admission", Actions: []string{"clinical", "ipdDetails"}},
			{Resource: "treatment", Actions: []string{"administer", "skip"}},
			{Resource: "emergencyMedication", Actions: []string{"request"}},
			{Resource: "labReport", Actions: []string{"create"}},
			{Resource: "file", Actions: []string{"view"}},
		},
	},
}

func Can(usertype string, resource string, action string) bool {
	r, ok := Roles[usertype]
	if !ok {
		return false
	}
	for _, p := range r.Privileges {
		if p.Resource != resource {
			continue
		}
		for _, a := range p.Actions {
			if a == action {
				return true
			}
		}
	}
	return false
}
