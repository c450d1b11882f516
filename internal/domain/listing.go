package domain

import "time"

// Listing is a property submitted through the listing form. Every form
// field is stored as text; numeric-looking fields are parsed by consumers.
type Listing struct {
	ID int64 `json:"id" db:"id"`

	Email           Text `json:"email" db:"email"`
	SourceOfListing Text `json:"source_of_listing" db:"source_of_listing"`

	Category    Text `json:"category" db:"category"`
	SubCategory Text `json:"sub_category" db:"sub_category"`
	Purpose     Text `json:"purpose" db:"purpose"`

	PropertyCode  Text `json:"property_code" db:"property_code"`
	Emirate       Text `json:"emirate" db:"emirate"`
	AreaCommunity Text `json:"area_community" db:"area_community"`
	BuildingName  Text `json:"building_name" db:"building_name"`
	UnitNumber    Text `json:"unit_number" db:"unit_number"`
	GooglePin     Text `json:"google_pin" db:"google_pin"`

	Bedrooms          Text `json:"bedrooms" db:"bedrooms"`
	Bathrooms         Text `json:"bathrooms" db:"bathrooms"`
	SizeSqft          Text `json:"size_sqft" db:"size_sqft"`
	MaidRoom          Text `json:"maid_room" db:"maid_room"`
	Furnishing        Text `json:"furnishing" db:"furnishing"`
	PropertyCondition Text `json:"property_condition" db:"property_condition"`

	SalePrice            Text `json:"sale_price" db:"sale_price"`
	UnitStatus           Text `json:"unit_status" db:"unit_status"`
	RentedDetails        Text `json:"rented_details" db:"rented_details"`
	NoticeGiven          Text `json:"notice_given" db:"notice_given"`
	SalesAgentCommission Text `json:"sales_agent_commission" db:"sales_agent_commission"`

	AskingRent          Text `json:"asking_rent" db:"asking_rent"`
	NumberOfChq         Text `json:"number_of_chq" db:"number_of_chq"`
	SecurityDeposit     Text `json:"security_deposit" db:"security_deposit"`
	RentAgentCommission Text `json:"rent_agent_commission" db:"rent_agent_commission"`

	KeysStatus      Text `json:"keys_status" db:"keys_status"`
	ViewingStatus   Text `json:"viewing_status" db:"viewing_status"`
	MoreInformation Text `json:"more_information" db:"more_information"`
	PropertyImages  Text `json:"property_images" db:"property_images"`
	Documents       Text `json:"documents" db:"documents"`

	AgentCode   Text `json:"agent_code" db:"agent_code"`
	AgentName   Text `json:"agent_name" db:"agent_name"`
	AgentMobile Text `json:"agent_mobile" db:"agent_mobile"`
	AgentEmail  Text `json:"agent_email" db:"agent_email"`
	AgentAgency Text `json:"agent_agency" db:"agent_agency"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ListingColumns are the stored form columns in schema order. id and
// created_at are managed by the store and are not part of the list.
var ListingColumns = []string{
	"email", "source_of_listing",
	"category", "sub_category", "purpose",
	"property_code", "emirate", "area_community", "building_name", "unit_number", "google_pin",
	"bedrooms", "bathrooms", "size_sqft", "maid_room", "furnishing", "property_condition",
	"sale_price", "unit_status", "rented_details", "notice_given", "sales_agent_commission",
	"asking_rent", "number_of_chq", "security_deposit", "rent_agent_commission",
	"keys_status", "viewing_status", "more_information", "property_images", "documents",
	"agent_code", "agent_name", "agent_mobile", "agent_email", "agent_agency",
}

// Fields returns pointers to the form fields, aligned with ListingColumns.
func (l *Listing) Fields() []*Text {
	return []*Text{
		&l.Email, &l.SourceOfListing,
		&l.Category, &l.SubCategory, &l.Purpose,
		&l.PropertyCode, &l.Emirate, &l.AreaCommunity, &l.BuildingName, &l.UnitNumber, &l.GooglePin,
		&l.Bedrooms, &l.Bathrooms, &l.SizeSqft, &l.MaidRoom, &l.Furnishing, &l.PropertyCondition,
		&l.SalePrice, &l.UnitStatus, &l.RentedDetails, &l.NoticeGiven, &l.SalesAgentCommission,
		&l.AskingRent, &l.NumberOfChq, &l.SecurityDeposit, &l.RentAgentCommission,
		&l.KeysStatus, &l.ViewingStatus, &l.MoreInformation, &l.PropertyImages, &l.Documents,
		&l.AgentCode, &l.AgentName, &l.AgentMobile, &l.AgentEmail, &l.AgentAgency,
	}
}

// Validate checks the fields the submission form requires.
func (l *Listing) Validate() error {
	if l.Email.IsBlank() {
		return ErrEmailRequired
	}
	return nil
}

// ListingSearchColumns are matched by the admin dashboard search box.
var ListingSearchColumns = []string{
	"property_code", "emirate", "area_community", "building_name", "agent_name", "email",
}

// SearchText returns the values of ListingSearchColumns in order.
func (l *Listing) SearchText() []string {
	return []string{
		string(l.PropertyCode), string(l.Emirate), string(l.AreaCommunity),
		string(l.BuildingName), string(l.AgentName), string(l.Email),
	}
}
