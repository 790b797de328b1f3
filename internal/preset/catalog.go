package preset

import "github.com/inovacc/relic/internal/query"

// catalog is the full preset registry. Order here is the registration order
// surfaced by List and ListByCategory.
var catalog = []Preset{
	// archaeology
	{
		ID:          "ancient",
		Category:    CategoryArchaeology,
		Description: "GitHub's earliest repos (2008-2010)",
		Filters: query.FilterParams{
			Created: "2008-01-01..2010-12-31",
			Stars:   ">=1",
			Sort:    "stars",
		},
	},
	{
		ID:          "forgotten",
		Category:    CategoryArchaeology,
		Description: "Old repos with few stars, untouched for 5+ years",
		Filters: query.FilterParams{
			Created: "2008-01-01..2015-12-31",
			Stars:   "0..5",
			Sort:    "updated",
		},
	},
	{
		ID:          "graveyard",
		Category:    CategoryArchaeology,
		Description: "Archived and deprecated projects",
		Filters: query.FilterParams{
			Keywords: []string{"deprecated", "archived", "unmaintained", "abandoned"},
			Created:  "2008-01-01..2020-12-31",
			Sort:     "stars",
		},
	},
	{
		ID:          "one-commit",
		Category:    CategoryArchaeology,
		Description: "Repos with minimal activity, frozen in time",
		Filters: query.FilterParams{
			Created: "2008-01-01..2015-12-31",
			Stars:   "0..3",
			Sort:    "updated",
		},
	},
	{
		ID:          "abandoned-10y",
		Category:    CategoryArchaeology,
		Description: "Repos untouched for 10+ years",
		Filters: query.FilterParams{
			Created: "2008-01-01..2016-12-31",
			Pushed:  "<2016-01-01",
			Sort:    "stars",
		},
	},
	{
		ID:          "dotfiles-ancient",
		Category:    CategoryArchaeology,
		Description: "The earliest dotfiles and system configs",
		Filters: query.FilterParams{
			Keywords: []string{"dotfiles", "vimrc", "bashrc", "zshrc"},
			Created:  "2008-01-01..2012-12-31",
			Sort:     "stars",
		},
	},

	// dead-languages
	{
		ID:          "dead-lang",
		Category:    CategoryDeadLanguages,
		Description: "Projects in legacy/dead programming languages",
		Filters: query.FilterParams{
			Language: "Fortran",
			Created:  "2008-01-01..2018-12-31",
			Sort:     "stars",
		},
	},
	{
		ID:          "dead-lang-perl",
		Category:    CategoryDeadLanguages,
		Description: "Perl relics from the CGI era",
		Filters: query.FilterParams{
			Language: "Perl",
			Created:  "2008-01-01..2015-12-31",
			Sort:     "stars",
		},
	},
	{
		ID:          "dead-lang-pascal",
		Category:    CategoryDeadLanguages,
		Description: "Pascal and Delphi survivors",
		Filters: query.FilterParams{
			Language: "Pascal",
			Created:  "2008-01-01..2018-12-31",
			Sort:     "stars",
		},
	},
	{
		ID:          "dead-lang-cobol",
		Category:    CategoryDeadLanguages,
		Description: "COBOL: the language that won't die",
		Filters: query.FilterParams{
			Language: "COBOL",
			Created:  "2008-01-01..2020-12-31",
			Sort:     "stars",
		},
	},
	{
		ID:          "dead-lang-tcl",
		Category:    CategoryDeadLanguages,
		Description: "Tcl/Tk scripts from a bygone era",
		Filters: query.FilterParams{
			Language: "Tcl",
			Created:  "2008-01-01..2018-12-31",
			Sort:     "stars",
		},
	},
	{
		ID:          "dead-lang-smalltalk",
		Category:    CategoryDeadLanguages,
		Description: "Smalltalk: OOP's grandparent",
		Filters: query.FilterParams{
			Language: "Smalltalk",
			Created:  "2008-01-01..2020-12-31",
			Sort:     "stars",
		},
	},
	{
		ID:          "flash-rip",
		Category:    CategoryDeadLanguages,
		Description: "Flash/ActionScript projects (RIP 2020)",
		Filters: query.FilterParams{
			Keywords: []string{"flash", "swf", "actionscript"},
			Language: "ActionScript",
			Created:  "2008-01-01..2018-12-31",
			Sort:     "stars",
		},
	},

	// eras
	{
		ID:          "y2k-web",
		Category:    CategoryEras,
		Description: "Y2K-era web tools and relics",
		Filters: query.FilterParams{
			Keywords: []string{"cgi", "guestbook", "webring", "geocities"},
			Created:  "2008-01-01..2012-12-31",
			Sort:     "stars",
		},
	},
	{
		ID:          "pre-npm",
		Category:    CategoryEras,
		Description: "JavaScript before npm existed (2008-2011)",
		Filters: query.FilterParams{
			Keywords: []string{"jquery", "prototype", "mootools", "scriptaculous"},
			Language: "JavaScript",
			Created:  "2008-01-01..2011-12-31",
			Sort:     "stars",
		},
	},
	{
		ID:          "pre-docker",
		Category:    CategoryEras,
		Description: "Infrastructure before containers (Puppet/Chef/Vagrant)",
		Filters: query.FilterParams{
			Keywords: []string{"puppet", "chef", "vagrant", "capistrano", "fabric"},
			Created:  "2008-01-01..2013-12-31",
			Sort:     "stars",
		},
	},
	{
		ID:          "pre-git",
		Category:    CategoryEras,
		Description: "CVS/SVN migration tools and pre-git relics",
		Filters: query.FilterParams{
			Keywords: []string{"cvs", "svn", "subversion", "mercurial", "bazaar"},
			Created:  "2008-01-01..2012-12-31",
			Sort:     "stars",
		},
	},
	{
		ID:          "homebrew-fossils",
		Category:    CategoryEras,
		Description: "Early macOS/Homebrew era tools",
		Filters: query.FilterParams{
			Keywords: []string{"homebrew", "macports", "fink", "osx"},
			Created:  "2008-01-01..2013-12-31",
			Sort:     "stars",
		},
	},

	// culture
	{
		ID:          "digital-utopia",
		Category:    CategoryCulture,
		Description: "Digital democracy and virtual world experiments",
		Filters: query.FilterParams{
			Keywords: []string{"democracy", "society", "virtual world", "utopia", "collective"},
			Created:  "2008-01-01..2015-12-31",
			Sort:     "stars",
		},
	},
	{
		ID:          "cyber-relics",
		Category:    CategoryCulture,
		Description: "Early internet culture and cyberspace projects",
		Filters: query.FilterParams{
			Keywords: []string{"cyberspace", "information superhighway", "bulletin board"},
			Created:  "2008-01-01..2012-12-31",
			Sort:     "stars",
		},
	},
	{
		ID:          "irc-era",
		Category:    CategoryCulture,
		Description: "IRC bots, clients, and scripts",
		Filters: query.FilterParams{
			Keywords: []string{"irc", "irc bot", "irc client", "eggdrop"},
			Created:  "2008-01-01..2015-12-31",
			Sort:     "stars",
		},
	},
	{
		ID:          "myspace-era",
		Category:    CategoryCulture,
		Description: "Social network widgets and MySpace-era tools",
		Filters: query.FilterParams{
			Keywords: []string{"myspace", "widget", "social network", "friendster"},
			Created:  "2008-01-01..2012-12-31",
			Sort:     "stars",
		},
	},
	{
		ID:          "sourceforge-refugees",
		Category:    CategoryCulture,
		Description: "Projects migrated from SourceForge",
		Filters: query.FilterParams{
			Keywords: []string{"sourceforge", "migrated", "cvs2git", "svn2git"},
			Created:  "2008-01-01..2015-12-31",
			Sort:     "stars",
		},
	},
	{
		ID:          "bbs-era",
		Category:    CategoryCulture,
		Description: "Bulletin board systems and BBS door games",
		Filters: query.FilterParams{
			Keywords: []string{"bbs", "bulletin board", "door game", "fidonet", "telnet"},
			Created:  "2008-01-01..2015-12-31",
			Sort:     "stars",
		},
	},
	{
		ID:          "crypto-og",
		Category:    CategoryCulture,
		Description: "Early blockchain and cryptocurrency (2009-2013)",
		Filters: query.FilterParams{
			Keywords: []string{"bitcoin", "blockchain", "cryptocurrency", "mining", "satoshi"},
			Created:  "2009-01-01..2013-12-31",
			Sort:     "stars",
		},
	},

	// science
	{
		ID:          "weird-science",
		Category:    CategoryScience,
		Description: "Experimental science and simulation projects",
		Filters: query.FilterParams{
			Keywords: []string{"experiment", "neural", "genetic", "chaos", "fractal", "simulation"},
			Created:  "2008-01-01..2015-12-31",
			Sort:     "stars",
		},
	},
	{
		ID:          "academic",
		Category:    CategoryScience,
		Description: "Thesis projects and academic research code",
		Filters: query.FilterParams{
			Keywords: []string{"thesis", "dissertation", "phd", "research", "paper"},
			Created:  "2008-01-01..2018-12-31",
			Sort:     "stars",
		},
	},
}
