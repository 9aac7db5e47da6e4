package archive

import (
	"strconv"
	"strings"
	"time"

	"github.com/workvault/workvault/internal/models"
)

// CalculateHours renders the elapsed time between two "HH:MM" (or "HHMM")
// clock strings as "7h 30m". An end before start is assumed to cross
// midnight. Unparseable input yields "N/A".
func CalculateHours(start, end string) string {
	startMins, ok := parseClock(start)
	if !ok {
		return "N/A"
	}
	endMins, ok := parseClock(end)
	if !ok {
		return "N/A"
	}
	if endMins < startMins {
		endMins += 24 * 60
	}
	total := endMins - startMins
	h, m := total/60, total%60
	if m == 0 {
		return strconv.Itoa(h) + "h"
	}
	return strconv.Itoa(h) + "h " + strconv.Itoa(m) + "m"
}

func parseClock(s string) (int, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ":", "")
	if len(s) < 4 {
		return 0, false
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(s[2:4])
	if err != nil {
		return 0, false
	}
	return h*60 + m, true
}

// RenderPersonText produces the sectioned plaintext record written into an
// archive: identifying info, orientation hours, uniform sizes, and notes.
func RenderPersonText(p *models.Person, startTime, endTime string, now time.Time) string {
	lines := []string{
		"FILE ARCHIVED: " + now.Format("01-02-2006 1504"),
		"",
		"== Candidate Info ==",
		"Name: " + orNA(p.Basic.Name),
		"Employee ID: " + orNA(p.Basic.EmployeeID),
		"Hire Date (NEO): " + orNA(p.Basic.NEOScheduledDate),
		"Job Name: " + orNA(p.Basic.JobName),
		"Job Location: " + orNA(p.Basic.JobLocation),
		"Branch: " + orNA(p.Basic.Branch),
		"",
		"== NEO Hours ==",
		"Start: " + orNA(startTime),
		"End:   " + orNA(endTime),
		"Total Hours: " + CalculateHours(startTime, endTime),
		"",
		"== Uniform Sizes ==",
		"Shirt: " + orNA(p.Basic.ShirtSize),
		"Pants: " + orNA(p.Basic.PantsSize),
		"Boots: " + orNA(p.Basic.BootsSize),
		"",
	}

	if notes := strings.TrimSpace(p.Basic.Notes); notes != "" {
		lines = append(lines, "== Notes ==")
		for _, line := range strings.Split(notes, "\n") {
			lines = append(lines, strings.TrimRight(line, " \t\r"))
		}
		lines = append(lines, "")
	}

	lines = append(lines, strings.Repeat("-", 40))
	return strings.Join(lines, "\n")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
