package main

// Command descriptions
const (
	MsgRootShort = "Build research repositories reproducibly"
	MsgRootLong  = `gsmake builds the modules of a research repository. A module declares
in gsmake.yaml the inputs and externals it needs and the programs to run;
gsmake links or copies the sources into place, runs every program through
its application, and records everything in the module's makelog together
with statistics and headers of the files read and written.`

	MsgRunShort         = "Build the module in a directory"
	MsgRunAllShort      = "Build every module of a repository"
	MsgLinkShort        = "Link or copy sources listed in instruction files"
	MsgExecShort        = "Run a single program through its application"
	MsgCommandShort     = "Run a command line and log its output"
	MsgClearShort       = "Empty directories, creating them when missing"
	MsgZipShort         = "Archive a directory into a zip file"
	MsgUnzipShort       = "Extract a zip archive into a directory"
	MsgCheckSetupShort  = "Check that this machine can build the repository"
	MsgInitConfigShort  = "Write a user configuration template"
	MsgAppsShort        = "Show the resolved application table"
	MsgTopicsShort      = "Display available documentation topics"
	MsgCompletionShort  = "Generate shell completion script"
	MsgManShort         = "Generate man pages"
	MsgVersionShort     = "Print version information"
	MsgNoCommand        = "no command specified"
	MsgUserConfigExists = "`%s` already exists; use --force to overwrite it"
	MsgUserConfigDone   = "User configuration written to `%s`"
	MsgManDone          = "Man pages written to `%s`"
	MsgNoModules        = "No modules found under `%s`"
	MsgModulesDone      = "%d module(s) built"
	MsgZipDone          = "`%s` archived into `%s`"
	MsgUnzipDone        = "`%s` extracted into `%s`"
)

// Flag descriptions
const (
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagFormat     = "Console format: auto, terminal or text"
	MsgFlagRoot       = "Repository root (defaults to the git top level, then the current directory)"
	MsgFlagManifest   = "Manifest file name inside the module directory"
	MsgFlagModules    = "Modules to build, in order (defaults to every module found)"
	MsgFlagInto       = "Directory links or copies are created in"
	MsgFlagCopy       = "Copy sources instead of linking them"
	MsgFlagMapLog     = "Write a destination | source map log to this file"
	MsgFlagMakelog    = "Makelog to start, write to and end"
	MsgFlagDir        = "Working directory"
	MsgFlagLog        = "File receiving the program's log"
	MsgFlagLST        = "File receiving the SAS listing"
	MsgFlagArgs       = "Extra arguments passed to the program"
	MsgFlagExecutable = "Executable replacing the application's default"
	MsgFlagOption     = "Option string replacing the application's default"
	MsgFlagDoctype    = "LyX document type: handout or comments"
	MsgFlagTimeout    = "Jupyter per-cell timeout in seconds"
	MsgFlagKernel     = "Jupyter kernel name"
	MsgFlagOutputDir  = "Directory receiving LyX PDFs"
	MsgFlagPDFDir     = "Directory receiving LyX PDFs, overriding --output-dir"
	MsgFlagRemove     = "Remove the directories instead of clearing them"
	MsgFlagForce      = "Overwrite an existing file"
	MsgFlagOS         = "Operating system of the table: posix or nt"
)
