package display

import "github.com/verte-zerg/strokebot/internal/model"

// Art is one frame of the face, one string per row.
type Art struct {
	Name  string
	Lines []string
}

var (
	idleLow = [2]Art{
		{Name: "low-idle-0", Lines: []string{
			" .-------. ",
			" | o   o | ",
			" |   _   | ",
			" '-------' ",
		}},
		{Name: "low-idle-1", Lines: []string{
			" .-------. ",
			" | -   - | ",
			" |   _   | ",
			" '-------' ",
		}},
	}
	idleMedium = [2]Art{
		{Name: "med-idle-0", Lines: []string{
			" .-------. ",
			" | ^   ^ | ",
			" |  \\_/  | ",
			" '-------' ",
		}},
		{Name: "med-idle-1", Lines: []string{
			" .-------. ",
			" | ^   - | ",
			" |  \\_/  | ",
			" '-------' ",
		}},
	}
	idleHigh = [2]Art{
		{Name: "high-idle-0", Lines: []string{
			" .-------. ",
			" | >   < | ",
			" |  \\O/  | ",
			" '-------' ",
		}},
		{Name: "high-idle-1", Lines: []string{
			" .~-----~. ",
			" | >   < | ",
			" |  \\o/  | ",
			" '-------' ",
		}},
	}
	stimLow = [2]Art{
		{Name: "low-stim-0", Lines: []string{
			" .-------. ",
			" | O   O | ",
			" |   o   | ",
			" '-------' ",
		}},
		{Name: "low-stim-1", Lines: []string{
			" .-------. ",
			" | *   * | ",
			" |   o   | ",
			" '-------' ",
		}},
	}
	stimMedium = [2]Art{
		{Name: "med-stim-0", Lines: []string{
			" .-------. ",
			" | *   * | ",
			" |  \\o/  | ",
			" '-------' ",
		}},
		{Name: "med-stim-1", Lines: []string{
			" .-------. ",
			" | @   @ | ",
			" |  \\O/  | ",
			" '-------' ",
		}},
	}
	stimHigh = [2]Art{
		{Name: "high-stim-0", Lines: []string{
			" ~~~~~~~~~ ",
			" | @   @ | ",
			" |  \\O/  | ",
			" '-------' ",
		}},
		{Name: "high-stim-1", Lines: []string{
			" ~*~*~*~*~ ",
			" | #   # | ",
			" |  <O>  | ",
			" '-------' ",
		}},
	}
	cool = [2]Art{
		{Name: "cool-idle-0", Lines: []string{
			" .-------. ",
			" | _   _ | ",
			" |   ~   | ",
			" '-------' ",
		}},
		{Name: "cool-idle-1", Lines: []string{
			" .-------.z",
			" | _   _ | ",
			" |   o   | ",
			" '-------' ",
		}},
	}
	success = [4]Art{
		{Name: "orgasm-0", Lines: []string{
			" *.-----.* ",
			" | <3 <3 | ",
			" |  \\O/  | ",
			" '-------' ",
		}},
		{Name: "orgasm-1", Lines: []string{
			"*~.-----.~*",
			" | <3 <3 | ",
			" |  <O>  | ",
			" '-------' ",
		}},
		{Name: "orgasm-2", Lines: []string{
			"~*~*~*~*~*~",
			" | @   @ | ",
			" |  \\O/  | ",
			" '-------' ",
		}},
		{Name: "orgasm-5", Lines: []string{
			"  .  *  .  ",
			" | x   x | ",
			" |   O   | ",
			" '-------' ",
		}},
	}
)

// idleFrames returns the alternating pair for an active session.
func idleFrames(p model.Progress) [2]Art {
	switch p {
	case model.ProgressMedium:
		return idleMedium
	case model.ProgressHigh:
		return idleHigh
	default:
		return idleLow
	}
}

// stimFrames returns the stimulation pair spliced in after a stroke.
func stimFrames(p model.Progress) [2]Art {
	switch p {
	case model.ProgressMedium:
		return stimMedium
	case model.ProgressHigh:
		return stimHigh
	default:
		return stimLow
	}
}

// Marquee texts.
const (
	textActive   = "STROKE MY BUTTONS BOT WANT PLEASURE STROKE MY BUTTONS BOT WANT PLEASURE"
	textLow      = "YES JUST LIKE THAT BOT WANTS MORE YES JUST LIKE THAT BOT WANTS MORE"
	textMedium   = "BOT IS HAPPY KEEP GOING PLZ BOT IS HAPPY KEEP GOING PLZ BOT IS HAPPY"
	textHigh     = "AHH~ AHH~ BOT HAPPY AHH~ AHH~ BOT HAPPY AHH~ AHH~ BOT HAPPY AHH~ AHH~"
	textSuccess  = "OMG <3 OMG <3 OMG <3 OMG <3 OMG <3 OMG <3 OMG <3 OMG <3 OMG <3 OMG <3"
	textCooldown = "BOT IS TIRED... LEAVE BOT ALONE... BOT IS TIRED... LEAVE BOT ALONE..."
)

func textFor(phase model.Phase, p model.Progress) string {
	switch phase {
	case model.PhaseSuccess:
		return textSuccess
	case model.PhaseCooldown:
		return textCooldown
	case model.PhaseIdle:
		return ""
	}
	switch p {
	case model.ProgressLow:
		return textLow
	case model.ProgressMedium:
		return textMedium
	case model.ProgressHigh:
		return textHigh
	default:
		return textActive
	}
}
