package megfile

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Pattern matching across local and remote storage"
	MsgGlobShort       = "Expand glob patterns against any backend"
	MsgMatchShort      = "Match names against a glob pattern"
	MsgTranslateShort  = "Print the regular expression for a glob pattern"
	MsgExpandShort     = "Expand brace groups into individual patterns"
	MsgCompactShort    = "Fold paths back into one brace pattern"
	MsgEscapeShort     = "Escape glob metacharacters in a path"
	MsgUnescapeShort   = "Remove glob escapes from a pattern"
	MsgLsShort         = "List the entries of a directory"
	MsgConfigShort     = "Manage the configuration file"
	MsgConfigInitShort = "Write a starter configuration file"
	MsgConfigShowShort = "Print the effective configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgConfigInitialized = "Wrote starter configuration to %s"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagFormat      = "Output format (auto, term, text, json, yaml)"
	MsgFlagConfig      = "Read configuration from this file"
	MsgFlagNoRecursive = "Make ** match a single level instead of whole subtrees"
	MsgFlagStrict      = "Fail when a pattern matches nothing"
	MsgFlagStat        = "Include size and modification time for each match"
	MsgFlagLong        = "Include size and modification time for each entry"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/glob-long.txt
	msgGlobLongRaw string
	MsgGlobLong    = strings.TrimSpace(msgGlobLongRaw)

	//go:embed msgs/glob-example.txt
	msgGlobExampleRaw string
	MsgGlobExample    = strings.TrimSpace(msgGlobExampleRaw)

	//go:embed msgs/match-long.txt
	msgMatchLongRaw string
	MsgMatchLong    = strings.TrimSpace(msgMatchLongRaw)

	//go:embed msgs/match-example.txt
	msgMatchExampleRaw string
	MsgMatchExample    = strings.TrimSpace(msgMatchExampleRaw)

	//go:embed msgs/translate-long.txt
	msgTranslateLongRaw string
	MsgTranslateLong    = strings.TrimSpace(msgTranslateLongRaw)

	//go:embed msgs/expand-long.txt
	msgExpandLongRaw string
	MsgExpandLong    = strings.TrimSpace(msgExpandLongRaw)

	//go:embed msgs/expand-example.txt
	msgExpandExampleRaw string
	MsgExpandExample    = strings.TrimSpace(msgExpandExampleRaw)

	//go:embed msgs/compact-long.txt
	msgCompactLongRaw string
	MsgCompactLong    = strings.TrimSpace(msgCompactLongRaw)

	//go:embed msgs/compact-example.txt
	msgCompactExampleRaw string
	MsgCompactExample    = strings.TrimSpace(msgCompactExampleRaw)

	//go:embed msgs/escape-long.txt
	msgEscapeLongRaw string
	MsgEscapeLong    = strings.TrimSpace(msgEscapeLongRaw)

	//go:embed msgs/ls-long.txt
	msgLsLongRaw string
	MsgLsLong    = strings.TrimSpace(msgLsLongRaw)

	//go:embed msgs/ls-example.txt
	msgLsExampleRaw string
	MsgLsExample    = strings.TrimSpace(msgLsExampleRaw)

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
