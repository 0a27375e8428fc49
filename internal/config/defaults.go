package config

const (
	defaultLogDir          = "~/.local/share/photokeep/logs"
	defaultHistoryDBPath   = "~/.local/share/photokeep/history.db"
	defaultMountPoint      = "/mnt/photobackup"
	defaultRsyncBinary     = "rsync"
	defaultExiftoolBinary  = "exiftool"
	defaultRawDirName      = "RAW"
	defaultJpegDirName     = "JPG"
	defaultRawExtension    = "RAF"
	defaultTargetExtension = "JPG"
	defaultStatsMinRating  = 1
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Backup: Backup{
			MountPoint:  defaultMountPoint,
			RsyncBinary: defaultRsyncBinary,
		},
		Ratings: Ratings{
			RawDirName:      defaultRawDirName,
			JpegDirName:     defaultJpegDirName,
			RawExtension:    defaultRawExtension,
			TargetExtension: defaultTargetExtension,
			ExiftoolBinary:  defaultExiftoolBinary,
		},
		Stats: Stats{
			MinRating: defaultStatsMinRating,
		},
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryDBPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
