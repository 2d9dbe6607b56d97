package scanner

// DefaultExcludes are the well-known version control metadata and temporary
// file patterns skipped when AddDefaultExcludes is called.
var DefaultExcludes = []string{
	// Miscellaneous typical temporary files
	"**/*~",
	"**/#*#",
	"**/.#*",
	"**/%*%",
	"**/._*",

	// CVS
	"**/CVS",
	"**/CVS/**",
	"**/.cvsignore",

	// Subversion
	"**/.svn",
	"**/.svn/**",

	// Arch
	"**/.arch-ids",
	"**/.arch-ids/**",

	// Bazaar
	"**/.bzr",
	"**/.bzr/**",

	// SurroundSCM
	"**/.MySCMServerInfo",

	// Mac
	"**/.DS_Store",

	// Serena Dimensions Version 10
	"**/.metadata",
	"**/.metadata/**",

	// Mercurial
	"**/.hg",
	"**/.hg/**",

	// git
	"**/.git",
	"**/.git/**",
	"**/.gitignore",
	"**/.gitattributes",

	// BitKeeper
	"**/BitKeeper",
	"**/BitKeeper/**",
	"**/ChangeSet",
	"**/ChangeSet/**",

	// darcs
	"**/_darcs",
	"**/_darcs/**",
	"**/.darcsrepo",
	"**/.darcsrepo/**",
	"**/-darcs-backup*",
	"**/.darcs-temp-mail",
}
