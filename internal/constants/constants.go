package constants

import "time"

const (
	AppName            = "streaklit"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/streaklit/streaklit.db"
	Version            = "v0.3.0"

	// DateFormat is the day key used for records and stored dates (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Environment variables
	EnvConfig       = "STREAKLIT_CONFIG"
	EnvTimezone     = "STREAKLIT_TIMEZONE"
	EnvDBConnection = "STREAKLIT_DB_CONNECTION"

	// Goal defaults
	GoalID            = "userGoal"
	DefaultTargetDays = 60
	DefaultTimezone   = "Local"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "streaklit-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifierLockfileName   = "streaklit-tray.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.streaklit"
	TrayExecutablePrefix   = "streaklit-tray"
	TraySecretHeader       = "X-Streaklit-Secret"
	TrayRequestTimeout     = 2 * time.Second
)

// User-facing notification messages.
const (
	MsgStorageError      = "Storage error"
	MsgMarked            = "You've successfully completed today's streak."
	MsgMarkFailed        = "Failed to mark today's streak in local storage."
	MsgGoalUpdated       = "Goal updated successfully!"
	MsgGoalUpdateFailed  = "Failed to update your streak goal in local storage."
	MsgInvalidTarget     = "Please enter a valid positive number for your goal."
	MsgMissedDay         = "You missed a day. Your streak has been reset to 0."
	MsgGapDetected       = "A gap was detected in your streak. Resetting to 0."
	MsgStreakDataCleared = "No streak data found. Your streak has been reset to 0."
)
