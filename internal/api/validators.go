package api

import (
	"net/http"
	"strconv"

	"github.com/sportsfest/livescore/internal/domain"
)

var validSports = map[string]bool{
	string(domain.SportCricket):     true,
	string(domain.SportFootball):    true,
	string(domain.SportBasketball):  true,
	string(domain.SportBadminton):   true,
	string(domain.SportTableTennis): true,
	string(domain.SportVolleyball):  true,
	string(domain.SportKhoKho):      true,
	string(domain.SportKabaddi):     true,
	string(domain.SportChess):       true,
}

var validStatuses = map[string]bool{
	domain.StatusScheduled: true,
	domain.StatusLive:      true,
	domain.StatusCompleted: true,
}

var validCategories = map[string]bool{
	domain.CategoryRegular:   true,
	domain.CategorySemifinal: true,
	domain.CategoryFinal:     true,
}

var validFoulTypes = map[string]bool{
	domain.FoulYellowCard:    true,
	domain.FoulRedCard:       true,
	domain.FoulPersonal:      true,
	domain.FoulTechnical:     true,
	domain.FoulUnsportsman:   true,
	domain.FoulRaidViolation: true,
	domain.FoulLineCross:     true,
}

// parseLimit parses and validates a limit parameter with default and max values
func parseLimit(r *http.Request, defaultLimit, maxLimit int) int {
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= maxLimit {
			return parsed
		}
	}
	return defaultLimit
}

// validateSport checks if a sport string is one of the supported sports
func validateSport(sport string) bool {
	return validSports[sport]
}

// validateStatus checks if a lifecycle status string is valid
func validateStatus(status string) bool {
	return validStatuses[status]
}

// validateCategory checks if a match category is valid
func validateCategory(category string) bool {
	return validCategories[category]
}

// validateFoulType checks if a foul type string is valid
func validateFoulType(foulType string) bool {
	return validFoulTypes[foulType]
}
