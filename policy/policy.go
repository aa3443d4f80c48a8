package policy

import "github.com/kendall-kelly/complaint-desk-api/models"

// Operation names a capability checked against the caller's role
type Operation string

const (
	UserReadSelf   Operation = "user.read_self"
	UserReadAny    Operation = "user.read_any"
	UserList       Operation = "user.list"
	UserChangeRole Operation = "user.change_role"
	UserListStaff  Operation = "user.list_staff"

	ComplaintCreate         Operation = "complaint.create"
	ComplaintCreateForOther Operation = "complaint.create_for_other"
	ComplaintListAll        Operation = "complaint.list_all"
	ComplaintReadAny        Operation = "complaint.read_any"
	ComplaintUpdate         Operation = "complaint.update"
	ComplaintDeleteAny      Operation = "complaint.delete_any"

	UpdateCreate         Operation = "update.create"
	UpdateCreateForOther Operation = "update.create_for_other"
	UpdateRead           Operation = "update.read"
	UpdateDeleteAny      Operation = "update.delete_any"

	AttachmentCreate Operation = "attachment.create"
	AttachmentRead   Operation = "attachment.read"
	AttachmentDelete Operation = "attachment.delete"

	FeedbackCreate Operation = "feedback.create"
	FeedbackRead   Operation = "feedback.read"
	FeedbackStats  Operation = "feedback.stats"
)

// everyone holds these regardless of role
var baseline = []Operation{
	UserReadSelf,
	ComplaintCreate,
	UpdateRead,
	AttachmentCreate, AttachmentRead, AttachmentDelete,
	FeedbackRead,
}

var staffOps = []Operation{
	UserListStaff,
	ComplaintListAll, ComplaintReadAny, ComplaintUpdate,
	UpdateCreate,
}

var adminOps = []Operation{
	UserReadAny, UserList, UserChangeRole,
	ComplaintCreateForOther, ComplaintDeleteAny,
	UpdateCreateForOther, UpdateDeleteAny,
	FeedbackCreate, FeedbackStats,
}

// DefaultTable is the role to capability mapping the API enforces
var DefaultTable = map[string][]Operation{
	models.RoleCustomer: join(baseline, []Operation{FeedbackCreate}),
	models.RoleStaff:    join(baseline, staffOps),
	models.RoleManager:  join(baseline, staffOps, []Operation{ComplaintDeleteAny, FeedbackStats}),
	models.RoleAdmin:    join(baseline, staffOps, adminOps),
}

// Gate answers whether a role holds a capability
type Gate struct {
	grants map[string]map[Operation]bool
}

// NewGate builds a gate from a role to operations table
func NewGate(table map[string][]Operation) *Gate {
	grants := make(map[string]map[Operation]bool, len(table))
	for role, ops := range table {
		set := make(map[Operation]bool, len(ops))
		for _, op := range ops {
			set[op] = true
		}
		grants[role] = set
	}
	return &Gate{grants: grants}
}

// Default returns a gate over DefaultTable
func Default() *Gate {
	return NewGate(DefaultTable)
}

// Allow reports whether role may perform op. Unknown roles, including the empty role of an
// unregistered caller, hold nothing.
func (g *Gate) Allow(role string, op Operation) bool {
	return g.grants[role][op]
}

func join(groups ...[]Operation) []Operation {
	var out []Operation
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
