package domain

import "time"

// RequirementStatusNew is the status given to freshly submitted requirements.
const RequirementStatusNew = "New"

// BuyerRequirement is what a prospective buyer or tenant is looking for.
// Bedrooms and bathrooms are minimums; budget bounds are only meaningful
// together.
type BuyerRequirement struct {
	ID int64 `json:"id" db:"id"`

	Name  Text `json:"name" db:"name"`
	Email Text `json:"email" db:"email"`
	Phone Text `json:"phone" db:"phone"`

	Purpose     Text `json:"purpose" db:"purpose"`
	Category    Text `json:"category" db:"category"`
	SubCategory Text `json:"sub_category" db:"sub_category"`

	Emirate        Text `json:"emirate" db:"emirate"`
	PreferredAreas Text `json:"preferred_areas" db:"preferred_areas"`

	Bedrooms    Text `json:"bedrooms" db:"bedrooms"`
	Bathrooms   Text `json:"bathrooms" db:"bathrooms"`
	MinSizeSqft Text `json:"min_size_sqft" db:"min_size_sqft"`
	MaxSizeSqft Text `json:"max_size_sqft" db:"max_size_sqft"`
	MaidRoom    Text `json:"maid_room" db:"maid_room"`
	Furnishing  Text `json:"furnishing" db:"furnishing"`

	MinBudget     Text `json:"min_budget" db:"min_budget"`
	MaxBudget     Text `json:"max_budget" db:"max_budget"`
	PaymentMethod Text `json:"payment_method" db:"payment_method"`
	MoveInDate    Text `json:"move_in_date" db:"move_in_date"`

	AdditionalRequirements Text `json:"additional_requirements" db:"additional_requirements"`

	Status     Text `json:"status" db:"status"`
	AssignedTo Text `json:"assigned_to" db:"assigned_to"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RequirementColumns are the stored columns in schema order, excluding id
// and the timestamps.
var RequirementColumns = []string{
	"name", "email", "phone",
	"purpose", "category", "sub_category",
	"emirate", "preferred_areas",
	"bedrooms", "bathrooms", "min_size_sqft", "max_size_sqft", "maid_room", "furnishing",
	"min_budget", "max_budget", "payment_method", "move_in_date",
	"additional_requirements",
	"status", "assigned_to",
}

// Fields returns pointers aligned with RequirementColumns.
func (r *BuyerRequirement) Fields() []*Text {
	return []*Text{
		&r.Name, &r.Email, &r.Phone,
		&r.Purpose, &r.Category, &r.SubCategory,
		&r.Emirate, &r.PreferredAreas,
		&r.Bedrooms, &r.Bathrooms, &r.MinSizeSqft, &r.MaxSizeSqft, &r.MaidRoom, &r.Furnishing,
		&r.MinBudget, &r.MaxBudget, &r.PaymentMethod, &r.MoveInDate,
		&r.AdditionalRequirements,
		&r.Status, &r.AssignedTo,
	}
}

// Validate enforces the fields the requirement form marks as mandatory and
// defaults the status.
func (r *BuyerRequirement) Validate() error {
	required := []Text{
		r.Name, r.Email, r.Phone,
		r.Purpose, r.Category, r.SubCategory,
		r.Emirate, r.Bedrooms, r.Bathrooms,
		r.MinBudget, r.MaxBudget,
	}
	for _, v := range required {
		if v.IsBlank() {
			return ErrMissingFields
		}
	}
	if r.Status.IsBlank() {
		r.Status = RequirementStatusNew
	}
	return nil
}
