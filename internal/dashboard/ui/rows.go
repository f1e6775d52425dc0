package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"

	"bites4life/internal/dashboard/client"
)

// Column indexes into a table.Row.
const (
	colName = iota
	colCode
	colStatus
	colReported
	colOnRoute
	colDevice
	colRing
)

const ringingMarker = "RINGING"

func columns(width int) []table.Column {
	device := 24
	if width > 0 {
		// Leave the remainder of the screen to the device column.
		if rest := width - (18 + 6 + 12 + 10 + 10 + 9) - 16; rest > device {
			device = rest
		}
	}
	return []table.Column{
		{Title: "Name", Width: 18},
		{Title: "Code", Width: 6},
		{Title: "Status", Width: 12},
		{Title: "Reported", Width: 10},
		{Title: "On Route", Width: 10},
		{Title: "Device", Width: device},
		{Title: "Ring", Width: 9},
	}
}

func riderRows(riders []client.Rider) []table.Row {
	rows := make([]table.Row, 0, len(riders))
	for _, r := range riders {
		ring := ""
		if r.Ringing() {
			ring = ringingMarker
		}
		rows = append(rows, table.Row{r.Name, r.Code, r.Status, r.RTime, r.ATime, r.DeviceInfo, ring})
	}
	return rows
}

func ringingSummary(riders []client.Rider) string {
	var names []string
	for _, r := range riders {
		if r.Ringing() {
			names = append(names, r.Name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	return "Ringing: " + strings.Join(names, ", ")
}
