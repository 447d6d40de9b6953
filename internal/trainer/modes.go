package trainer

import (
	"time"

	"github.com/example/verbbot/internal/answer"
	"github.com/example/verbbot/internal/state"
	"github.com/example/verbbot/pkg/models"
)

func (c *Controller) startDrill(u *state.User, mode models.Mode, fresh bool) (Reply, error) {
	verb, err := c.draw(u, fresh)
	if err != nil {
		return Reply{}, err
	}

	next := ActionFormsNext
	if mode == models.ModeTranslation {
		u.Session = state.Translation{Verb: verb}
		next = ActionTranslationNext
	} else {
		u.Session = state.Forms{Verb: verb}
	}

	return Reply{
		Text:     drillPrompt(u.Session),
		Controls: nextControls(next),
		Markdown: true,
	}, nil
}

// startMix picks the drill opposite to the last Mix question, or a random one
func (c *Controller) startMix(u *state.User, fresh bool) (Reply, error) {
	submode := u.LastMixSubmode.Opposite()
	if !u.LastMixSubmode.IsDrill() && c.selector.Coin() {
		submode = models.ModeTranslation
	}

	verb, err := c.draw(u, fresh)
	if err != nil {
		return Reply{}, err
	}

	u.Session = state.Mix{Verb: verb, Submode: submode}
	u.LastMixSubmode = submode

	return Reply{
		Text:     drillPrompt(u.Session),
		Controls: nextControls(ActionMixNext),
		Markdown: true,
	}, nil
}

func (c *Controller) startSpeed(u *state.User, now time.Time) (Reply, error) {
	verb, err := c.draw(u, true)
	if err != nil {
		return Reply{}, err
	}

	round := &state.Speed{
		RunID:     c.newRunID(),
		Verb:      verb,
		StartedAt: now,
		Deadline:  now.Add(c.speedDuration),
	}
	u.Session = round
	c.logger.Printf("speed round %s started for user %d", round.RunID, u.ID)

	return Reply{
		Text:     speedStartPrompt(round, c.speedDuration),
		Controls: speedControls,
		Markdown: true,
	}, nil
}

// startRepeat asks the head of the mistake ledger
func (c *Controller) startRepeat(u *state.User) Reply {
	head, ok := u.Ledger.PeekHead()
	if !ok {
		u.Reset()
		return c.menu(u, noMistakesText, false)
	}

	s := state.Repeat{Verb: head.Verb, Rule: head.Mode}
	u.Session = s
	return Reply{
		Text:     repeatPrompt(s),
		Controls: nextControls(ActionRepeatNext),
		Markdown: true,
	}
}

// skipRepeat sends the mistake under review to the back of the ledger
func (c *Controller) skipRepeat(u *state.User) {
	s, ok := u.Session.(state.Repeat)
	if !ok {
		return
	}
	if head, ok := u.Ledger.PeekHead(); ok && head.Verb.Infinitive == s.Verb.Infinitive && head.Mode == s.Rule {
		u.Ledger.RotateHeadToTail()
	}
}

func (c *Controller) stopSpeed(u *state.User) Reply {
	round, ok := u.Session.(*state.Speed)
	if !ok {
		return c.menu(u, chooseModeText, true)
	}

	u.Reset()
	c.logger.Printf("speed round %s stopped for user %d: %d/%d", round.RunID, u.ID, round.Correct, round.Total)
	return c.menu(u, speedStopText(round), true)
}

// answerDrill evaluates an answer in Forms, Translation or Mix. The session
// keeps its verb until the user asks for the next one.
func (c *Controller) answerDrill(u *state.User, mode models.Mode, verb *models.Verb, text string, now time.Time, next Action) Reply {
	verdict := answer.Check(mode, verb, text)

	u.Progress.Record(verdict.Correct, now)
	if !verdict.Correct {
		u.Ledger.Add(verb, mode)
	}

	return Reply{
		Text:     verdictText(mode, verdict.Correct, verdict.Canonical),
		Controls: nextControls(next),
		Markdown: true,
	}
}

// answerRepeat evaluates the reviewed mistake, then clears it on success or
// sends it to the back of the queue, and moves on to the new head.
func (c *Controller) answerRepeat(u *state.User, s state.Repeat, text string, now time.Time) Reply {
	verdict := answer.Check(s.Rule, s.Verb, text)
	u.Progress.Record(verdict.Correct, now)

	if verdict.Correct {
		u.Ledger.RemoveMatch(s.Verb.Infinitive, s.Rule)
	} else if head, ok := u.Ledger.PeekHead(); ok && head.Verb.Infinitive == s.Verb.Infinitive && head.Mode == s.Rule {
		u.Ledger.RotateHeadToTail()
	} else {
		u.Ledger.Add(s.Verb, s.Rule)
	}

	result := verdictText(s.Rule, verdict.Correct, verdict.Canonical)

	head, ok := u.Ledger.PeekHead()
	if !ok {
		u.Reset()
		reply := c.menu(u, result+"\n\n"+allClearText, false)
		reply.Markdown = true
		return reply
	}

	next := state.Repeat{Verb: head.Verb, Rule: head.Mode}
	u.Session = next
	return Reply{
		Text:     result + "\n\nNext:\n" + repeatPrompt(next),
		Controls: nextControls(ActionRepeatNext),
		Markdown: true,
	}
}

// answerSpeed scores one timed answer. An answer after the deadline ends the
// round without being scored.
func (c *Controller) answerSpeed(u *state.User, round *state.Speed, text string, now time.Time) (Reply, error) {
	u.Progress.Touch(now)

	if round.Expired(now) {
		u.Reset()
		c.logger.Printf("speed round %s finished for user %d: %d/%d", round.RunID, u.ID, round.Correct, round.Total)
		reply := c.menu(u, speedTimeoutText(round), false)
		reply.Markdown = true
		return reply, nil
	}

	if len(answer.SpeedTokens(text)) == 0 {
		return Reply{
			Text:     speedPrompt(round, now),
			Controls: speedControls,
			Markdown: true,
		}, nil
	}

	verdict := answer.CheckSpeed(round.Verb, text)
	round.Total++
	if verdict.Correct {
		round.Correct++
	} else {
		round.Missed = append(round.Missed, round.Verb)
	}

	verb, err := c.draw(u, false)
	if err != nil {
		return Reply{}, err
	}
	round.Verb = verb

	return Reply{
		Text:     verdictText(models.ModeSpeed, verdict.Correct, verdict.Canonical) + "\n\n" + speedPrompt(round, now),
		Controls: speedControls,
		Markdown: true,
	}, nil
}
