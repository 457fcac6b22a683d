package account

import "time"

type Role string

const (
	RoleOperator    Role = "OPERATOR"
	RoleDistributor Role = "DISTRIBUTOR"
	RoleOutlet      Role = "OUTLET"
)

type OutletStatus string

const (
	StatusPending  OutletStatus = "PENDING"
	StatusActive   OutletStatus = "ACTIVE"
	StatusInactive OutletStatus = "INACTIVE"
)

// Outlet is the retail buyer organization.
type Outlet struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Status    OutletStatus `json:"status"`
	Phone     *string      `json:"phone,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// User is a login identity. OUTLET identities reference exactly one Outlet.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	OutletID  *string   `json:"outletId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Credentials are returned once, when an operator activates an outlet.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateOutletInput struct {
	Name  string  `json:"name" validate:"required,max=200"`
	Phone *string `json:"phone" validate:"omitempty,max=32"`
}

type ActivateOutletInput struct {
	Email string `json:"email" validate:"required,email"`
}

type SetStatusInput struct {
	Status OutletStatus `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
