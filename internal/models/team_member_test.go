package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamRole_DefaultPermissions(t *testing.T) {
	crew := TeamRoleCrew.DefaultPermissions()
	assert.Equal(t, StringArray{PermissionViewAvailability}, crew)

	admin := TeamRoleAdmin.DefaultPermissions()
	assert.Contains(t, admin, PermissionManageTeam)
	assert.Contains(t, admin, PermissionManagePayouts)

	instructor := TeamRoleInstructor.DefaultPermissions()
	assert.Contains(t, instructor, PermissionManageAvailability)
	assert.NotContains(t, instructor, PermissionViewEarnings)

	// Unknown role implies nothing
	assert.Empty(t, TeamRole("deckhand").DefaultPermissions())
}

func TestTeamRole_DefaultPermissions_ReturnsCopy(t *testing.T) {
	perms := TeamRoleCrew.DefaultPermissions()
	perms[0] = "mutated"

	again := TeamRoleCrew.DefaultPermissions()
	assert.Equal(t, PermissionViewAvailability, again[0])
}

func TestTeamMember_HasPermission(t *testing.T) {
	member := &TeamMember{
		Permissions: StringArray{PermissionViewAvailability, PermissionViewEarnings},
		IsActive:    true,
	}

	assert.True(t, member.HasPermission(PermissionViewEarnings))
	assert.False(t, member.HasPermission(PermissionManageTeam))

	// Deactivated members hold no permissions at all
	member.IsActive = false
	assert.False(t, member.HasPermission(PermissionViewEarnings))
}

func TestAddTeamMemberRequest_Validate(t *testing.T) {
	req := &AddTeamMemberRequest{
		UserID: uuid.New().String(),
		Role:   string(TeamRoleCaptain),
	}
	assert.NoError(t, req.Validate())
}

func TestAddTeamMemberRequest_Validate_BadInputs(t *testing.T) {
	req := &AddTeamMemberRequest{UserID: "nope", Role: string(TeamRoleCrew)}
	assert.Error(t, req.Validate())

	req = &AddTeamMemberRequest{UserID: uuid.New().String(), Role: "skipper"}
	assert.Error(t, req.Validate())

	negative := -5.0
	req = &AddTeamMemberRequest{UserID: uuid.New().String(), Role: string(TeamRoleCrew), HourlyRate: &negative}
	assert.Error(t, req.Validate())

	tooHigh := 150.0
	req = &AddTeamMemberRequest{UserID: uuid.New().String(), Role: string(TeamRoleCrew), CommissionRate: &tooHigh}
	assert.Error(t, req.Validate())

	badDate := "01/02/2026"
	req = &AddTeamMemberRequest{UserID: uuid.New().String(), Role: string(TeamRoleCrew), HireDate: &badDate}
	err := req.Validate()
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestHostProfile_Capabilities(t *testing.T) {
	starter := &HostProfile{SubscriptionTier: TierStarter}
	assert.NotContains(t, starter.Capabilities(), PermissionManageTeam)
	assert.NotContains(t, starter.Capabilities(), PermissionManagePayouts)

	pro := &HostProfile{SubscriptionTier: TierPro}
	assert.Contains(t, pro.Capabilities(), PermissionManageTeam)
	assert.NotContains(t, pro.Capabilities(), PermissionManagePayouts)

	fleet := &HostProfile{SubscriptionTier: TierFleet}
	assert.Contains(t, fleet.Capabilities(), PermissionManagePayouts)

	// Unknown tiers fall back to the starter set
	odd := &HostProfile{SubscriptionTier: SubscriptionTier("enterprise")}
	assert.Equal(t, starter.Capabilities(), odd.Capabilities())
}

func TestHostProfile_HoldsAll(t *testing.T) {
	pro := &HostProfile{SubscriptionTier: TierPro}

	assert.True(t, pro.HoldsAll([]string{PermissionViewAvailability, PermissionManageTeam}))
	assert.False(t, pro.HoldsAll([]string{PermissionViewAvailability, PermissionManagePayouts}))
	assert.True(t, pro.HoldsAll(nil))
}
