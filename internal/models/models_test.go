package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vwds/internal/domain"
)

func TestParseRole(t *testing.T) {
	for _, r := range Roles {
		got, err := ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	_, err := ParseRole("superuser")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = ParseRole("")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestParseTicketTypeDefaultsToViolation(t *testing.T) {
	got, err := ParseTicketType("  ")
	require.NoError(t, err)
	assert.Equal(t, TicketTypeViolation, got)

	got, err = ParseTicketType("overload")
	require.NoError(t, err)
	assert.Equal(t, TicketTypeOverload, got)

	_, err = ParseTicketType("jaywalking")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLoginInputValidate(t *testing.T) {
	in := LoginInput{Username: " alice ", Password: "pw123", Role: "admin"}
	role, err := in.Validate()
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)
	assert.Equal(t, "alice", in.Username)

	_, err = (&LoginInput{Username: "alice", Role: "admin"}).Validate()
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserInputValidate(t *testing.T) {
	create := UserInput{Username: "bob", Email: "bob@example.com", Password: "secret1", Role: "police_officer"}
	role, err := create.ValidateCreate()
	require.NoError(t, err)
	assert.Equal(t, RolePoliceOfficer, role)

	noPassword := UserInput{Username: "bob", Email: "bob@example.com", Role: "data_entry"}
	_, err = noPassword.ValidateCreate()
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = noPassword.ValidateUpdate()
	assert.NoError(t, err)

	short := UserInput{Username: "bob", Email: "bob@example.com", Password: "abc", Role: "admin"}
	_, err = short.ValidateUpdate()
	assert.ErrorIs(t, err, domain.ErrValidation)

	badEmail := UserInput{Username: "bob", Email: "bob", Password: "secret1", Role: "admin"}
	_, err = badEmail.ValidateCreate()
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestVehicleAndRouteInputValidate(t *testing.T) {
	v := VehicleInput{LicensePlate: " ABC-1234 ", Type: "truck", Weight: 12000}
	require.NoError(t, v.Validate())
	assert.Equal(t, "ABC-1234", v.LicensePlate)

	assert.ErrorIs(t, (&VehicleInput{Weight: 10}).Validate(), domain.ErrValidation)
	assert.ErrorIs(t, (&VehicleInput{LicensePlate: "X", Weight: -1}).Validate(), domain.ErrValidation)

	assert.NoError(t, (&RouteInput{Name: "Highway A1", Length: 120, WeightRestriction: 40000}).Validate())
	assert.ErrorIs(t, (&RouteInput{Name: " "}).Validate(), domain.ErrValidation)
	assert.ErrorIs(t, (&RouteInput{Name: "A", WeightRestriction: -5}).Validate(), domain.ErrValidation)
}

func TestTicketInputValidate(t *testing.T) {
	id := func(v int64) *int64 { return &v }
	fine := func(v float64) *float64 { return &v }

	tests := []struct {
		name    string
		in      TicketInput
		want    TicketType
		wantErr bool
	}{
		{name: "by names", in: TicketInput{LicensePlate: "ABC-1234", RouteName: "Highway A1", TicketType: "overload"}, want: TicketTypeOverload},
		{name: "by ids", in: TicketInput{VehicleID: id(1), RouteID: id(2)}, want: TicketTypeViolation},
		{name: "mixed", in: TicketInput{VehicleID: id(1), RouteName: "Highway A1"}, want: TicketTypeViolation},
		{name: "zero id counts as absent", in: TicketInput{VehicleID: id(0), RouteID: id(2)}, wantErr: true},
		{name: "no route", in: TicketInput{LicensePlate: "ABC-1234"}, wantErr: true},
		{name: "negative id", in: TicketInput{VehicleID: id(-1), RouteID: id(2)}, wantErr: true},
		{name: "negative fine", in: TicketInput{VehicleID: id(1), RouteID: id(2), FineAmount: fine(-1)}, wantErr: true},
		{name: "unknown type", in: TicketInput{VehicleID: id(1), RouteID: id(2), TicketType: "parking"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTicketInputFineDefault(t *testing.T) {
	assert.Zero(t, (&TicketInput{}).Fine())
	v := 150.0
	assert.Equal(t, 150.0, (&TicketInput{FineAmount: &v}).Fine())
}
