package okrapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/okrview/internal/domain"
)

// envelope is the outer shape shared by every endpoint. Success is optional;
// only an explicit false marks an application failure.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e envelope) dataIsNull() bool {
	d := bytes.TrimSpace(e.Data)
	return len(d) == 0 || bytes.Equal(d, []byte("null"))
}

// number accepts JSON numbers, numeric strings and null. Decimal columns are
// often serialised as strings.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*n = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
		if s == "" {
			*n = 0
			return nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", b)
	}
	*n = number(f)
	return nil
}

type cycleJSON struct {
	CycleID   number `json:"cycle_id"`
	CycleName string `json:"cycle_name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type objectiveJSON struct {
	ObjectiveID     number `json:"objective_id"`
	ObjTitle        string `json:"obj_title"`
	CycleID         number `json:"cycle_id"`
	Description     string `json:"description"`
	ProgressPercent number `json:"progress_percent"`
}

type departmentJSON struct {
	DepartmentID number `json:"department_id"`
	DName        string `json:"d_name"`
}

type userJSON struct {
	UserID   number `json:"user_id"`
	FullName string `json:"full_name"`
}

type nodeJSON struct {
	ObjectiveID     *number         `json:"objective_id"`
	KRID            *number         `json:"kr_id"`
	ObjTitle        string          `json:"obj_title"`
	KRTitle         string          `json:"kr_title"`
	ProgressPercent number          `json:"progress_percent"`
	CurrentValue    number          `json:"current_value"`
	TargetValue     number          `json:"target_value"`
	Unit            string          `json:"unit"`
	Department      *departmentJSON `json:"department"`
	User            *userJSON       `json:"user"`
	AssignedUser    *userJSON       `json:"assigned_user"`
	Children        []nodeJSON      `json:"children"`
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000000Z",
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func (c cycleJSON) toDomain() domain.Cycle {
	return domain.Cycle{
		ID:        int64(c.CycleID),
		Name:      c.CycleName,
		StartDate: parseDate(c.StartDate),
		EndDate:   parseDate(c.EndDate),
	}
}

func (o objectiveJSON) toDomain() domain.CompanyObjective {
	return domain.CompanyObjective{
		ID:          int64(o.ObjectiveID),
		Title:       o.ObjTitle,
		CycleID:     int64(o.CycleID),
		Description: o.Description,
		Progress:    float64(o.ProgressPercent),
	}
}

// toDomain converts a node and its descendants. A key result id wins over an
// objective id, since key results may also carry their parent's objective_id.
func (n nodeJSON) toDomain(path string) (*domain.TreeNode, error) {
	out := &domain.TreeNode{
		ProgressPercent: float64(n.ProgressPercent),
		CurrentValue:    float64(n.CurrentValue),
		TargetValue:     float64(n.TargetValue),
		Unit:            n.Unit,
	}
	switch {
	case n.KRID != nil:
		out.Kind = domain.KindKeyResult
		out.ID = domain.KeyResultNodeID(int64(*n.KRID))
		out.Title = n.KRTitle
	case n.ObjectiveID != nil:
		out.Kind = domain.KindObjective
		out.ID = domain.ObjectiveNodeID(int64(*n.ObjectiveID))
		out.Title = n.ObjTitle
	default:
		return nil, fmt.Errorf("%w: node at %s has neither objective_id nor kr_id", ErrInvalidResponse, path)
	}
	if n.Department != nil {
		out.Department = &domain.Department{ID: int64(n.Department.DepartmentID), Name: n.Department.DName}
	}
	owner := n.AssignedUser
	if owner == nil {
		owner = n.User
	}
	if owner != nil {
		out.Owner = &domain.User{ID: int64(owner.UserID), FullName: owner.FullName}
	}
	for i, child := range n.Children {
		c, err := child.toDomain(fmt.Sprintf("%s/%d", path, i))
		if err != nil {
			return nil, err
		}
		out.Children = append(out.Children, c)
	}
	return out, nil
}

// DecodeTree parses one tree node in the API shape, as found in the data
// field of the tree endpoint or in a saved snapshot. "null" yields nil.
func DecodeTree(raw []byte) (*domain.TreeNode, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var n nodeJSON
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return n.toDomain("root")
}

// EncodeTree writes t back in the API node shape so DecodeTree can read it.
func EncodeTree(t *domain.TreeNode) ([]byte, error) {
	if t == nil {
		return []byte("null"), nil
	}
	return json.Marshal(fromDomain(t))
}

// encodedNode is the output form of nodeJSON with plain numbers.
type encodedNode struct {
	ObjectiveID     *int64         `json:"objective_id,omitempty"`
	KRID            *int64         `json:"kr_id,omitempty"`
	ObjTitle        string         `json:"obj_title,omitempty"`
	KRTitle         string         `json:"kr_title,omitempty"`
	ProgressPercent float64        `json:"progress_percent"`
	CurrentValue    float64        `json:"current_value"`
	TargetValue     float64        `json:"target_value"`
	Unit            string         `json:"unit,omitempty"`
	Department      *encodedDept   `json:"department,omitempty"`
	AssignedUser    *encodedUser   `json:"assigned_user,omitempty"`
	Children        []*encodedNode `json:"children"`
}

type encodedDept struct {
	DepartmentID int64  `json:"department_id"`
	DName        string `json:"d_name"`
}

type encodedUser struct {
	UserID   int64  `json:"user_id"`
	FullName string `json:"full_name"`
}

func fromDomain(t *domain.TreeNode) *encodedNode {
	out := &encodedNode{
		ProgressPercent: t.ProgressPercent,
		CurrentValue:    t.CurrentValue,
		TargetValue:     t.TargetValue,
		Unit:            t.Unit,
		Children:        []*encodedNode{},
	}
	_, raw, err := domain.ParseNodeID(t.ID)
	if err != nil {
		raw = 0
	}
	if t.Kind == domain.KindKeyResult {
		out.KRID = &raw
		out.KRTitle = t.Title
	} else {
		out.ObjectiveID = &raw
		out.ObjTitle = t.Title
	}
	if t.Department != nil {
		out.Department = &encodedDept{DepartmentID: t.Department.ID, DName: t.Department.Name}
	}
	if t.Owner != nil {
		out.AssignedUser = &encodedUser{UserID: t.Owner.ID, FullName: t.Owner.FullName}
	}
	for _, c := range t.Children {
		out.Children = append(out.Children, fromDomain(c))
	}
	return out
}
