package directory

import "time"

const (
	EmploymentOnRole = "onrole"
	EmploymentIntern = "intern"

	StatusActive    = "active"
	StatusRelieved  = "relieved"
	StatusProbation = "probation"
)

// Named document slots an employee record carries. The "other" slot is
// multi-valued; the rest replace on re-upload.
const (
	SlotResume      = "resume"
	SlotIDProof     = "id_proof"
	SlotOfferLetter = "offer_letter"
	SlotEducation   = "education"
	SlotExperience  = "experience"
	SlotOther       = "other"
)

var NamedSlots = []string{SlotResume, SlotIDProof, SlotOfferLetter, SlotEducation, SlotExperience}

type Employee struct {
	ID             string     `json:"id"`
	EmployeeNo     string     `json:"employeeNo"`
	Name           string     `json:"name"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty"`
	Gender         string     `json:"gender"`
	BloodGroup     string     `json:"bloodGroup,omitempty"`
	MaritalStatus  string     `json:"maritalStatus,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Email          string     `json:"email,omitempty"`
	Address        string     `json:"address,omitempty"`
	EmploymentType string     `json:"employmentType"`
	WorkingStatus  string     `json:"workingStatus"`
	DesignationID  string     `json:"designationId"`
	Designation    string     `json:"designation,omitempty"`
	JoinDate       *time.Time `json:"joinDate,omitempty"`
	InternDate     *time.Time `json:"internDate,omitempty"`
	ProfileImage   string     `json:"profileImage,omitempty"`
	Documents      []Document `json:"documents,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type Document struct {
	ID         string    `json:"id"`
	Slot       string    `json:"slot"`
	Path       string    `json:"path"`
	FileName   string    `json:"fileName"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type Designation struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ListFilter struct {
	WorkingStatus  string
	EmploymentType string
	DesignationID  string
	Search         string
}
