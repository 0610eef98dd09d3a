// Package policy holds the process classification rules and the freeze selection policy.
// Rules are data: an ordered table evaluated top to bottom, first match wins.
package policy

import (
	"strings"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/domain"
)

// CriticalNames are OS processes that must never be suspended.
// Matched exactly (case-insensitive), never by substring.
var CriticalNames = []string{
	"system",
	"smss.exe",
	"csrss.exe",
	"wininit.exe",
	"services.exe",
	"lsass.exe",
	"svchost.exe",
	"winlogon.exe",
	"explorer.exe",
	"dwm.exe",
	"textinputhost.exe",
	"searchhost.exe",
	"startmenuexperiencehost.exe",
}

// GamingPathPatterns are install directory fragments of game stores and libraries.
var GamingPathPatterns = []string{
	`\steam\`,
	`\steamapps\`,
	`\steamlibrary\`,
	`\epic games\`,
	`\epicgames\`,
	`\origin games\`,
	`\gog galaxy\`,
	`\gog games\`,
	`\battle.net\`,
	`\ubisoft\`,
	`\ea games\`,
	`\riot games\`,
	`\games\`,
	`\my games\`,
}

// GamingNamePatterns cover launchers and anti-cheat services.
var GamingNamePatterns = []string{
	// Launchers
	"steam",
	"epic",
	"origin",
	"gog",
	"battle.net",
	"battlenet",
	"uplay",
	"ubisoft",

	// Anti-cheat
	"easyanticheat",
	"battleye",
	"vanguard",
}

// LauncherNamePatterns identify parents whose children are games.
var LauncherNamePatterns = []string{
	"steam",
	"epicgameslauncher",
	"galaxyclient",
	"battle.net",
	"origin",
	"eadesktop",
	"upc",
	"ubisoftconnect",
	"riotclientservices",
}

// CommunicationNames are chat and voice apps.
var CommunicationNames = []string{
	"discord",
	"slack",
	"teams",
	"telegram",
	"signal",
	"whatsapp",
	"zoom",
	"skype",
	"mumble",
	"teamspeak",
	"ventrilo",
	"element",
	"riot",
}

// BackgroundServiceNames are updaters, sync clients and vendor helpers.
var BackgroundServiceNames = []string{
	"updater",
	"update",
	"helper",
	"sync",
	"backup",
	"nvidia",
	"amd",
	"geforce",
	"radeon",
	"onedrive",
	"dropbox",
	"google drive",
	"toolbox",
}

// ProductivityNames are browsers, office suites, editors and media players.
var ProductivityNames = []string{
	"chrome",
	"firefox",
	"edge",
	"opera",
	"brave",
	"vivaldi",
	"excel",
	"word",
	"powerpoint",
	"outlook",
	"onenote",
	"vscode",
	"code",
	"pycharm",
	"intellij",
	"rider",
	"sublime",
	"spotify",
	"vlc",
	"itunes",
	"notion",
	"obsidian",
}

// Subject is the normalized identity a rule inspects.
// Name, Path and ParentName are lowercase; Path uses backslash separators.
type Subject struct {
	PID        int
	Name       string
	Path       string
	ParentName string
}

// NewSubject lowercases and normalizes raw process attributes.
func NewSubject(pid int, name, path, parentName string) Subject {
	return Subject{
		PID:        pid,
		Name:       strings.ToLower(name),
		Path:       strings.ReplaceAll(strings.ToLower(path), "/", `\`),
		ParentName: strings.ToLower(parentName),
	}
}

// Rule assigns Category when Match returns true.
type Rule struct {
	Category domain.Category
	Name     string
	Match    func(s Subject) bool
}

// Rules is the classification table in strict precedence order.
var Rules = []Rule{
	{
		Category: domain.CategoryCritical,
		Name:     "critical-name",
		Match:    func(s Subject) bool { return equalsAny(s.Name, CriticalNames) },
	},
	{
		Category: domain.CategoryGaming,
		Name:     "gaming-path",
		Match:    func(s Subject) bool { return containsAny(s.Path, GamingPathPatterns) },
	},
	{
		Category: domain.CategoryGaming,
		Name:     "gaming-name",
		Match: func(s Subject) bool {
			if containsAny(s.Name, GamingNamePatterns) {
				return true
			}
			return strings.Contains(s.Name, "game") && strings.Contains(s.Name, ".exe")
		},
	},
	{
		Category: domain.CategoryGaming,
		Name:     "gaming-parent",
		Match: func(s Subject) bool {
			return s.ParentName != "" && containsAny(s.ParentName, LauncherNamePatterns)
		},
	},
	{
		Category: domain.CategoryCommunication,
		Name:     "communication-name",
		Match:    func(s Subject) bool { return containsAny(s.Name, CommunicationNames) },
	},
	{
		Category: domain.CategoryBackgroundService,
		Name:     "background-name",
		Match:    func(s Subject) bool { return containsAny(s.Name, BackgroundServiceNames) },
	},
	{
		Category: domain.CategoryProductivity,
		Name:     "productivity-name",
		Match:    func(s Subject) bool { return containsAny(s.Name, ProductivityNames) },
	},
}

// RuleUnknown is reported when no rule matched.
const RuleUnknown = "default"

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func equalsAny(s string, names []string) bool {
	for _, n := range names {
		if strings.EqualFold(s, n) {
			return true
		}
	}
	return false
}
