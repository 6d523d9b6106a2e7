package models

import (
	"strings"
	"time"

	"vwds/internal/domain"
)

// Role is the closed set of portal roles. Every authorization decision
// is made on this value.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleDataEntry     Role = "data_entry"
	RolePoliceOfficer Role = "police_officer"
)

// Roles lists every role, admin first.
var Roles = []Role{RoleAdmin, RoleDataEntry, RolePoliceOfficer}

// Valid reports whether r is one of the three portal roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDataEntry, RolePoliceOfficer:
		return true
	}
	return false
}

// ParseRole converts a client-supplied role string.
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimSpace(s))
	if !r.Valid() {
		return "", domain.Invalid("role must be one of admin, data_entry, police_officer")
	}
	return r, nil
}

// TicketType classifies a violation. TicketTypeViolation is the generic
// type used when the officer does not pick one.
type TicketType string

const (
	TicketTypeSpeed          TicketType = "speed"
	TicketTypeOverload       TicketType = "overload"
	TicketTypeIllegalParking TicketType = "illegal_parking"
	TicketTypeOther          TicketType = "other"
	TicketTypeViolation      TicketType = "violation"
)

func (t TicketType) Valid() bool {
	switch t {
	case TicketTypeSpeed, TicketTypeOverload, TicketTypeIllegalParking, TicketTypeOther, TicketTypeViolation:
		return true
	}
	return false
}

// ParseTicketType maps an empty string to TicketTypeViolation.
func ParseTicketType(s string) (TicketType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TicketTypeViolation, nil
	}
	t := TicketType(s)
	if !t.Valid() {
		return "", domain.Invalid("ticket_type must be one of speed, overload, illegal_parking, other, violation")
	}
	return t, nil
}

// TicketStatus is written once at creation; nothing transitions it yet.
type TicketStatus string

const TicketStatusPending TicketStatus = "pending"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserSummary is the public view returned at login.
type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

type Vehicle struct {
	ID           int64     `json:"id"`
	LicensePlate string    `json:"licensePlate"`
	Type         string    `json:"type"`
	Weight       float64   `json:"weight"`
	CreatedAt    time.Time `json:"created_at"`
}

type Route struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Length            float64   `json:"length"`
	WeightRestriction float64   `json:"weightRestriction"`
	CreatedAt         time.Time `json:"created_at"`
}

// Ticket references are nullable: deleting a vehicle, route or officer
// keeps the ticket and clears the reference.
type Ticket struct {
	ID               int64        `json:"id"`
	VehicleID        *int64       `json:"vehicle_id"`
	RouteID          *int64       `json:"route_id"`
	OfficerID        *int64       `json:"officer_id"`
	ViolationDetails string       `json:"violationDetails"`
	FineAmount       float64      `json:"fine_amount"`
	TicketType       TicketType   `json:"ticket_type"`
	Status           TicketStatus `json:"status"`
	DateTime         time.Time    `json:"dateTime"`

	LicensePlate string `json:"licensePlate,omitempty"`
	VehicleType  string `json:"vehicleType,omitempty"`
	RouteName    string `json:"routeName,omitempty"`
	OfficerName  string `json:"officerName,omitempty"`
}

// VehicleMatch is one autocomplete hit.
type VehicleMatch struct {
	LicensePlate string  `json:"licensePlate"`
	Type         string  `json:"type"`
	Weight       float64 `json:"weight"`
}

// RouteMatch is one autocomplete hit.
type RouteMatch struct {
	Name              string  `json:"name"`
	WeightRestriction float64 `json:"weightRestriction"`
}

// TicketFilter narrows ticket listings and reports. From is inclusive,
// To is exclusive.
type TicketFilter struct {
	From *time.Time
	To   *time.Time
	Type TicketType
}

type DashboardStats struct {
	TotalTickets  int64 `json:"totalTickets"`
	TotalVehicles int64 `json:"totalVehicles"`
	TotalRoutes   int64 `json:"totalRoutes"`
	TotalUsers    int64 `json:"totalUsers"`
}

type TypeCount struct {
	TicketType TicketType `json:"ticket_type"`
	Count      int64      `json:"count"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type RouteViolations struct {
	Name       string `json:"name"`
	Violations int64  `json:"violations"`
}

type OfficerTickets struct {
	Username      string `json:"username"`
	TicketsIssued int64  `json:"tickets_issued"`
}

type Analytics struct {
	TicketsByType  []TypeCount       `json:"ticketsByType"`
	TicketsByMonth []MonthCount      `json:"ticketsByMonth"`
	TopRoutes      []RouteViolations `json:"topRoutes"`
	TopOfficers    []OfficerTickets  `json:"topOfficers"`
}
