package domain

import "time"

// Role constants
const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)

// Profile is the application-level user record keyed by the hosted identity id.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// EnsureProfileRequest carries what is known about an identity on first contact.
type EnsureProfileRequest struct {
	ID       string
	Email    string
	FullName string
}

// ProfileUpdate holds optional profile changes. Role is only honoured on admin paths.
type ProfileUpdate struct {
	FullName *string `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Role     *string `json:"role,omitempty"`
}

// WeddingForm is one client's persisted answers, upserted by user id.
type WeddingForm struct {
	UserID    string    `json:"user_id"`
	FormData  FieldMap  `json:"form_data"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Client is the admin view of a client profile joined with its wedding form.
type Client struct {
	Profile
	Form                 *WeddingForm `json:"wedding_form,omitempty"`
	CompletionPercentage int          `json:"completion_percentage"`
}

// NewClient is the admin "add client" payload. Wedding fields seed the initial form.
type NewClient struct {
	Email        string `json:"email" binding:"required,email"`
	FullName     string `json:"full_name" binding:"required"`
	Phone        string `json:"phone"`
	BrideName    string `json:"bride_name"`
	GroomName    string `json:"groom_name"`
	WeddingDate  string `json:"wedding_date"`
	VenueName    string `json:"venue_name"`
	ContactPhone string `json:"contact_phone"`
}

// InitialForm returns the wedding fields given on creation, or nil if none were.
func (n NewClient) InitialForm() FieldMap {
	fm := FieldMap{}
	set := func(name, v string) {
		if v != "" {
			fm[name] = v
		}
	}
	set("bride_name", n.BrideName)
	set("groom_name", n.GroomName)
	set("wedding_date", n.WeddingDate)
	set("venue_name", n.VenueName)
	set("contact_phone", n.ContactPhone)
	if len(fm) == 0 {
		return nil
	}
	return fm
}
