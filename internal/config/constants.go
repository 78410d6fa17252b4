package config

import "time"

// Base application details
const AppName = "tidelist"
const ThemesDirName = "themes"
const DefaultConfigFileName = "config.toml" // Main config file
const DefaultLogFileName = "tidelist.log"
const DefaultSnapshotFileName = "snapshot.json"

// UI Layout
const StatusBarHeight = 1
const DefaultInspectorWidthPercent = 45

// Status Bar
const MessageTimeout = 4 * time.Second

// History
const DefaultMaxHistory = 500
const DefaultListenerPolicy = "isolate"

// These could be moved to NewDefaultConfig(), keeping here for now
const DefaultScrollOff = 3
const SystemClipboard = false
const DefaultTheme = "DevComfort Dark"
