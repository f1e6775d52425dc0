package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatus_StampsReportTime(t *testing.T) {
	assert.True(t, StatusComing.StampsReportTime())
	assert.True(t, StatusHere.StampsReportTime())
	assert.False(t, StatusAvailable.StampsReportTime())
	assert.False(t, StatusOnRoute.StampsReportTime())
	assert.False(t, Status("Lunch Break").StampsReportTime())
	assert.False(t, Status("here").StampsReportTime())
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, Status("Lunch Break").Valid())
	assert.False(t, Status("").Valid())
	assert.False(t, Status("   ").Valid())
}

func TestNewRider_Defaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("PKT", 5*3600))
	r := NewRider("Ali", "4821", now)

	assert.Equal(t, "Ali", r.Name)
	assert.Equal(t, "4821", r.Code)
	assert.Equal(t, StatusAvailable, r.Status)
	assert.Equal(t, DeviceUnregistered, r.DeviceInfo)
	assert.Equal(t, TimePlaceholder, r.RTime)
	assert.Equal(t, TimePlaceholder, r.ATime)
	assert.Equal(t, RingIdle, r.RingStatus)
	assert.Equal(t, time.UTC, r.LastClickAt.Location())
}

func TestUser_HasHashedPassword(t *testing.T) {
	assert.False(t, (&User{Password: "4343"}).HasHashedPassword())
	assert.True(t, (&User{Password: "$2a$10$abcdefghijklmnopqrstuv"}).HasHashedPassword())
}
