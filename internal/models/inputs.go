package models

import (
	"strings"

	"vwds/internal/domain"
)

const minPasswordLength = 6

// LoginInput is the body of POST /api/login.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (in *LoginInput) Validate() (Role, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" || strings.TrimSpace(in.Role) == "" {
		return "", domain.Invalid("Username, password, and role are required")
	}
	return ParseRole(in.Role)
}

// UserInput is the body of user create/update. Password is optional on
// update.
type UserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (in *UserInput) normalize() {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Role = strings.TrimSpace(in.Role)
}

// ValidateCreate checks a new user and returns its parsed role.
func (in *UserInput) ValidateCreate() (Role, error) {
	in.normalize()
	if in.Username == "" || in.Email == "" || in.Password == "" || in.Role == "" {
		return "", domain.Invalid("All fields are required")
	}
	return in.validateCommon()
}

// ValidateUpdate is ValidateCreate with the password optional.
func (in *UserInput) ValidateUpdate() (Role, error) {
	in.normalize()
	if in.Username == "" || in.Email == "" || in.Role == "" {
		return "", domain.Invalid("username, email and role are required")
	}
	return in.validateCommon()
}

func (in *UserInput) validateCommon() (Role, error) {
	if !strings.Contains(in.Email, "@") {
		return "", domain.Invalid("email is not valid")
	}
	if in.Password != "" && len(in.Password) < minPasswordLength {
		return "", domain.Invalid("password must be at least %d characters", minPasswordLength)
	}
	return ParseRole(in.Role)
}

// VehicleInput is the body of vehicle create/update.
type VehicleInput struct {
	LicensePlate string  `json:"licensePlate"`
	Type         string  `json:"type"`
	Weight       float64 `json:"weight"`
}

func (in *VehicleInput) Validate() error {
	in.LicensePlate = strings.TrimSpace(in.LicensePlate)
	in.Type = strings.TrimSpace(in.Type)
	if in.LicensePlate == "" {
		return domain.Invalid("licensePlate is required")
	}
	if in.Weight < 0 {
		return domain.Invalid("weight must not be negative")
	}
	return nil
}

// RouteInput is the body of route create/update.
type RouteInput struct {
	Name              string  `json:"name"`
	Length            float64 `json:"length"`
	WeightRestriction float64 `json:"weightRestriction"`
}

func (in *RouteInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return domain.Invalid("name is required")
	}
	if in.Length < 0 || in.WeightRestriction < 0 {
		return domain.Invalid("length and weightRestriction must not be negative")
	}
	return nil
}

// TicketInput is the body of POST /api/tickets. The vehicle may be given
// by id or by license plate, the route by id or by name. Zero ids count
// as absent.
type TicketInput struct {
	VehicleID        *int64   `json:"vehicle_id"`
	RouteID          *int64   `json:"route_id"`
	LicensePlate     string   `json:"licensePlate"`
	RouteName        string   `json:"routeName"`
	ViolationDetails string   `json:"violationDetails"`
	FineAmount       *float64 `json:"fine_amount"`
	TicketType       string   `json:"ticket_type"`
}

// Validate normalizes the input and checks that both a vehicle and a
// route identifier are present in some form.
func (in *TicketInput) Validate() (TicketType, error) {
	in.LicensePlate = strings.TrimSpace(in.LicensePlate)
	in.RouteName = strings.TrimSpace(in.RouteName)
	in.ViolationDetails = strings.TrimSpace(in.ViolationDetails)

	if id := in.VehicleID; id != nil && *id < 0 {
		return "", domain.Invalid("vehicle_id must be positive")
	}
	if id := in.RouteID; id != nil && *id < 0 {
		return "", domain.Invalid("route_id must be positive")
	}
	if in.vehicleID() == 0 && in.LicensePlate == "" {
		return "", domain.Invalid("vehicle_id or licensePlate is required")
	}
	if in.routeID() == 0 && in.RouteName == "" {
		return "", domain.Invalid("route_id or routeName is required")
	}
	if in.FineAmount != nil && *in.FineAmount < 0 {
		return "", domain.Invalid("fine_amount must not be negative")
	}
	return ParseTicketType(in.TicketType)
}

func (in *TicketInput) vehicleID() int64 {
	if in.VehicleID == nil {
		return 0
	}
	return *in.VehicleID
}

func (in *TicketInput) routeID() int64 {
	if in.RouteID == nil {
		return 0
	}
	return *in.RouteID
}

// DirectVehicleID returns the supplied vehicle id, or 0 if absent.
func (in *TicketInput) DirectVehicleID() int64 { return in.vehicleID() }

// DirectRouteID returns the supplied route id, or 0 if absent.
func (in *TicketInput) DirectRouteID() int64 { return in.routeID() }

// Fine returns the fine amount, defaulting to 0.
func (in *TicketInput) Fine() float64 {
	if in.FineAmount == nil {
		return 0
	}
	return *in.FineAmount
}
