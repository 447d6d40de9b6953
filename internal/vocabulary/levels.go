package vocabulary

import "github.com/example/verbbot/pkg/models"

// Verbs that belong to the easiest tier when a catalogue entry has no explicit level
var tierOneInfinitives = []string{
	"be", "have", "do", "say", "go", "get", "make", "know", "think", "take",
	"see", "come", "give", "find", "tell", "leave", "feel", "put", "bring",
	"begin", "keep", "let", "show", "hear", "write", "sit", "stand", "lose",
	"pay", "meet", "run", "speak", "read", "grow", "spend", "build", "fall",
	"send", "cut", "learn", "understand", "draw", "break", "drive", "buy",
	"wear", "choose", "eat", "drink", "sleep", "win", "hold", "sell", "teach",
	"forget", "forgive", "fly", "lead", "rise", "shake", "become", "fight",
	"feed", "ride", "ring", "sing", "sink", "swim", "throw", "tear", "steal",
	"stick", "strike", "sweep", "swing", "wake", "wind", "withdraw",
	"withstand", "arise", "awake", "bite", "bleed", "blow", "breed", "burst",
	"cast", "catch", "cling", "creep",
}

// Verbs added by the medium tier
var tierTwoInfinitives = []string{
	"backslide", "befall", "beget", "behold", "bend", "bereave", "beseech",
	"beset", "bespeak", "bestride", "bet", "betake", "bid", "bind", "bless",
	"broadcast", "browbeat", "burn", "bust", "can", "chide", "cleave",
	"clothe", "cost", "crow", "deal", "dig", "dive", "dream", "dwell", "flee",
	"fling", "floodlight", "forbear", "forbid", "forecast", "foresee",
	"foretell", "forsake", "forego", "grind", "hang", "mishear", "mislay",
	"mislead", "misread", "misspell", "misspend", "mistake", "misunderstand",
	"miswrite", "mow", "offset", "outbid", "outdo", "outfight", "outgrow",
	"output", "outrun", "outsell", "outshine", "overcome", "overdo",
	"overeat", "overfly", "overhang", "overhear", "overlay", "overpay",
	"override", "overrun", "oversee", "overshoot", "oversleep", "overspend",
	"overtake", "overthrow", "partake", "plead", "preset", "prove", "quit",
	"rebind", "rebuild", "recast", "redo", "rehear", "remake", "rend", "repay",
	"rerun", "resell", "reset", "retake", "reteach", "retell", "rewind",
	"rewrite", "rid", "roughcast", "saw", "seek", "sew", "shave", "shear",
	"shed", "shine", "shoe", "shrink", "shut", "sight-read", "slay", "slide",
	"sling", "slink", "slit", "smell", "smite", "sneak", "sow", "speed", "spell",
	"spill", "spin", "spit", "split", "spoil", "spread", "spring", "sting",
	"stink", "stride", "string", "strive", "sublet", "swell", "thrive", "thrust",
	"tread", "typecast", "typeset", "typewrite", "unbend", "unbind", "unclothe",
	"underbid", "undercut", "undergo", "underlie", "underpay", "undersell",
	"undertake", "underwrite", "undo", "unfreeze", "unhang", "unhide", "unhold",
	"unknit", "unlearn", "unmake", "unreeve", "unsay", "unsling", "unspin",
	"unstick", "unstring", "unweave", "unwind", "uphold", "upset", "waylay",
	"weave", "wed", "weep", "wet", "withhold", "wring",
}

var defaultTiers = buildDefaultTiers()

func buildDefaultTiers() map[string]int {
	tiers := make(map[string]int, len(tierOneInfinitives)+len(tierTwoInfinitives))
	for _, inf := range tierTwoInfinitives {
		tiers[inf] = 2
	}
	for _, inf := range tierOneInfinitives {
		tiers[inf] = models.MinTier
	}
	return tiers
}

// defaultTier classifies a verb that arrived without a level
func defaultTier(infinitive string) int {
	if tier, ok := defaultTiers[infinitive]; ok {
		return tier
	}
	return models.MaxTier
}
