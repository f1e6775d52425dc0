package model

import (
	"strings"
	"time"
)

// Status is a rider's self-reported or admin-assigned state. The set is open:
// clients define their own vocabulary and any non-empty value is stored as is.
type Status string

// Recognized statuses.
const (
	StatusAvailable Status = "Available"
	StatusComing    Status = "Coming"
	StatusHere      Status = "Here"
	StatusOnRoute   Status = "On Route"
)

// StampsReportTime reports whether a self-report of s records r_time.
func (s Status) StampsReportTime() bool {
	return s == StatusComing || s == StatusHere
}

// Valid reports whether s carries a value worth storing.
func (s Status) Valid() bool {
	return strings.TrimSpace(string(s)) != ""
}

// RingStatus is the single-slot notification flag on a rider.
type RingStatus string

const (
	RingIdle    RingStatus = "idle"
	RingRinging RingStatus = "ringing"
)

// Column defaults shared by the schema and freshly created riders.
const (
	TimePlaceholder    = "--"
	DeviceUnregistered = "Not Registered"
	DefaultRiderStatus = StatusAvailable
	DefaultRingStatus  = RingIdle
)

// Rider is a delivery rider tracked on the dispatch board.
type Rider struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"size:100;not null"`
	Code        string     `json:"code" gorm:"size:10;uniqueIndex;not null"`
	Status      Status     `json:"status" gorm:"size:50;not null;default:'Available'"`
	DeviceInfo  string     `json:"device_info" gorm:"size:255;not null;default:'Not Registered'"`
	RTime       string     `json:"r_time" gorm:"column:r_time;size:50;not null;default:'--'"`
	ATime       string     `json:"a_time" gorm:"column:a_time;size:50;not null;default:'--'"`
	LastClickAt time.Time  `json:"last_click_dt" gorm:"column:last_click_dt"`
	RingStatus  RingStatus `json:"ring_status" gorm:"size:20;not null;default:'idle';index"`
}

// TableName keeps the table name of databases created by earlier deployments.
func (Rider) TableName() string {
	return "rider"
}

// NewRider returns a rider with every column at its initial value.
func NewRider(name, code string, now time.Time) *Rider {
	return &Rider{
		Name:        name,
		Code:        code,
		Status:      DefaultRiderStatus,
		DeviceInfo:  DeviceUnregistered,
		RTime:       TimePlaceholder,
		ATime:       TimePlaceholder,
		LastClickAt: now.UTC(),
		RingStatus:  DefaultRingStatus,
	}
}
