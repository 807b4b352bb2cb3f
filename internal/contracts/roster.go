package contracts

import "fmt"

// RosterMember is one authoritative HR record for a current employee,
// sourced from the monthly SAP active-employee sheet. EmployeeID is the
// canonical zero-padded NIK and must be unique within the roster.
type RosterMember struct {
	EmployeeID string `json:"employee_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`

	Unit       string `json:"unit"`
	Subunit    string `json:"subunit"`
	AdminHR    string `json:"admin_hr"`
	Layer      string `json:"layer"`
	Generation string `json:"generation"`
	Gender     string `json:"gender"`
	Division   string `json:"division"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Region     string `json:"region"`
}

// Dimension is one of the closed set of organizational breakdown
// attributes. Report views group by a Dimension; free-text column
// lookups are rejected so schema drift fails fast.
type Dimension string

const (
	DimUnit       Dimension = "unit"
	DimSubunit    Dimension = "subunit"
	DimAdminHR    Dimension = "admin_hr"
	DimLayer      Dimension = "layer"
	DimGeneration Dimension = "generation"
	DimGender     Dimension = "gender"
	DimDivision   Dimension = "division"
	DimDepartment Dimension = "department"
	DimPosition   Dimension = "position"
	DimRegion     Dimension = "region"
)

// Dimensions lists every valid breakdown dimension.
var Dimensions = []Dimension{
	DimUnit,
	DimSubunit,
	DimAdminHR,
	DimLayer,
	DimGeneration,
	DimGender,
	DimDivision,
	DimDepartment,
	DimPosition,
	DimRegion,
}

// ParseDimension validates a breakdown attribute name.
func ParseDimension(s string) (Dimension, error) {
	for _, d := range Dimensions {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown breakdown dimension: %q", s)
}

// Attr returns the member's value for a breakdown dimension.
func (m *RosterMember) Attr(d Dimension) string {
	switch d {
	case DimUnit:
		return m.Unit
	case DimSubunit:
		return m.Subunit
	case DimAdminHR:
		return m.AdminHR
	case DimLayer:
		return m.Layer
	case DimGeneration:
		return m.Generation
	case DimGender:
		return m.Gender
	case DimDivision:
		return m.Division
	case DimDepartment:
		return m.Department
	case DimPosition:
		return m.Position
	case DimRegion:
		return m.Region
	default:
		return ""
	}
}
