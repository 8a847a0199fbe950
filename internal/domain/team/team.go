// Package team folds NFL team identifiers to canonical franchise nicknames.
//
// Identifiers arrive in many shapes ("Washington Redskins", "Commanders",
// "san francisco 49ers"). Canonicalize keeps the last word, matches it
// case-insensitively against known nicknames and follows franchise renames
// so that linked identifiers share one key.
package team

import (
	"strings"
)

// franchises lists the current 32 franchises by full name.
var franchises = []string{ //nolint:gochecknoglobals // static reference data
	"Arizona Cardinals", "Atlanta Falcons", "Baltimore Ravens", "Buffalo Bills",
	"Carolina Panthers", "Chicago Bears", "Cincinnati Bengals", "Cleveland Browns",
	"Dallas Cowboys", "Denver Broncos", "Detroit Lions", "Green Bay Packers",
	"Houston Texans", "Indianapolis Colts", "Jacksonville Jaguars", "Kansas City Chiefs",
	"Las Vegas Raiders", "Los Angeles Chargers", "Los Angeles Rams", "Miami Dolphins",
	"Minnesota Vikings", "New England Patriots", "New Orleans Saints", "New York Giants",
	"New York Jets", "Philadelphia Eagles", "Pittsburgh Steelers", "San Francisco 49ers",
	"Seattle Seahawks", "Tampa Bay Buccaneers", "Tennessee Titans", "Washington Commanders",
}

// renamed maps a former nickname to the nickname the franchise uses today.
var renamed = map[string]string{ //nolint:gochecknoglobals // static reference data
	"redskins": "Commanders",
	"oilers":   "Titans",
}

// nicknames maps lower-cased nicknames to their display form.
var nicknames = func() map[string]string { //nolint:gochecknoglobals // derived once
	m := make(map[string]string, len(franchises)+len(renamed))
	for _, f := range franchises {
		n := lastField(f)
		m[strings.ToLower(n)] = n
	}
	return m
}()

func lastField(s string) string {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// Canonicalize returns the canonical nickname for a team identifier, or ""
// for a blank one. Unknown nicknames (defunct franchises) are returned with
// their original spelling so they still form their own bucket.
func Canonicalize(identifier string) string {
	n := lastField(identifier)
	if n == "" {
		return ""
	}
	key := strings.ToLower(n)
	if cur, ok := renamed[key]; ok {
		return cur
	}
	if display, ok := nicknames[key]; ok {
		return display
	}
	return n
}

// HistoricallyLinked reports whether two identifiers name the same franchise.
func HistoricallyLinked(a, b string) bool {
	ca, cb := Canonicalize(a), Canonicalize(b)
	return ca != "" && ca == cb
}

// All returns the full names of the current franchises.
func All() []string {
	out := make([]string, len(franchises))
	copy(out, franchises)
	return out
}
