package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"stocks_bot/internal/feature/dialogue/domain/entity"
	pricesentity "stocks_bot/internal/feature/prices/domain/entity"
)

// Incoming is one text message received from a chat.
type Incoming struct {
	UserID int64
	ChatID int64
	Text   string
}

// Conversation drives the per-session dialogue.
// It never blocks on market data: a completed dialogue yields a Job for the worker pool.
type Conversation struct {
	sessions SessionStore
	now      func() time.Time
}

// NewConversation creates a Conversation backed by the given session store.
func NewConversation(sessions SessionStore) *Conversation {
	return &Conversation{sessions: sessions, now: time.Now}
}

// Handle processes one message and returns the replies to send.
// Commands and menu buttons are honored in any state and reset the current dialogue.
// On error the session is dropped on a best-effort basis so the next message starts fresh.
func (c *Conversation) Handle(ctx context.Context, in Incoming) (Outcome, error) {
	key := entity.SessionKey{UserID: in.UserID, ChatID: in.ChatID}
	out, err := c.handle(ctx, key, in)
	if err != nil {
		if derr := c.sessions.Delete(context.WithoutCancel(ctx), key); derr != nil && !errors.Is(derr, ErrSessionNotFound) {
			slog.Warn("failed to reset session after error", "session", key.String(), "error", derr)
		}
		return Outcome{}, err
	}
	return out, nil
}

func (c *Conversation) handle(ctx context.Context, key entity.SessionKey, in Incoming) (Outcome, error) {
	msg := strings.TrimSpace(in.Text)

	switch msg {
	case CmdStart:
		if err := c.clear(ctx, key); err != nil {
			return Outcome{}, err
		}
		return reply(text(WelcomeMessage, MainMenuKeyboard())), nil
	case CmdGuide, BtnGuide:
		if err := c.clear(ctx, key); err != nil {
			return Outcome{}, err
		}
		return reply(text(GuideMessage, MainMenuKeyboard())), nil
	case CmdHistorical, BtnHistorical:
		return c.begin(ctx, in, entity.FlowHistorical)
	case CmdSMA, BtnSMA:
		return c.begin(ctx, in, entity.FlowSMA)
	case BtnFullData:
		return c.begin(ctx, in, entity.FlowFullData)
	case BtnCancel, BtnBack:
		if err := c.clear(ctx, key); err != nil {
			return Outcome{}, err
		}
		return reply(text(BackToMenuMessage, MainMenuKeyboard())), nil
	}

	sess, err := c.sessions.Get(ctx, key)
	if errors.Is(err, ErrSessionNotFound) {
		return reply(text(UnknownMessage, MainMenuKeyboard())), nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("load session %s: %w", key, err)
	}
	return c.advance(ctx, sess, msg)
}

func (c *Conversation) begin(ctx context.Context, in Incoming, flow entity.Flow) (Outcome, error) {
	sess := &entity.Session{
		UserID: in.UserID,
		ChatID: in.ChatID,
		Flow:   flow,
		Step:   entity.StepTicker,
	}
	if err := c.save(ctx, sess); err != nil {
		return Outcome{}, err
	}
	return reply(text(PromptTicker, CancelKeyboard())), nil
}

// advance validates msg against the current step. Invalid input keeps the step.
func (c *Conversation) advance(ctx context.Context, sess *entity.Session, msg string) (Outcome, error) {
	switch sess.Step {
	case entity.StepTicker:
		if err := pricesentity.ValidateTicker(msg); err != nil {
			return reply(text(ErrorInvalidTicker, CancelKeyboard())), nil
		}
		sess.Ticker = msg
		switch sess.Flow {
		case entity.FlowSMA:
			return c.finish(ctx, sess, &Job{Kind: JobSMA}, SuccessCalculatingSMA)
		case entity.FlowFullData:
			return c.finish(ctx, sess, &Job{Kind: JobFullData}, StatusFetchingData)
		}
		sess.Step = entity.StepStartDate
		return c.next(ctx, sess, text(PromptStartDate, CancelKeyboard()))

	case entity.StepStartDate:
		if _, err := pricesentity.ParseDate(msg); err != nil {
			return reply(text(ErrorInvalidDate, CancelKeyboard())), nil
		}
		sess.StartDate = msg
		sess.Step = entity.StepEndDate
		return c.next(ctx, sess, text(PromptEndDate, CancelKeyboard()))

	case entity.StepEndDate:
		to, err := pricesentity.ParseDate(msg)
		if err != nil {
			return reply(text(ErrorInvalidDate, CancelKeyboard())), nil
		}
		if from, _ := pricesentity.ParseDate(sess.StartDate); to.Before(from) {
			return reply(text(ErrorInvalidRange, CancelKeyboard())), nil
		}
		sess.EndDate = msg
		sess.Step = entity.StepMultiplier
		return c.next(ctx, sess, text(PromptMultiplier, CancelKeyboard()))

	case entity.StepMultiplier:
		n, err := pricesentity.ParseMultiplier(msg)
		if err != nil {
			return reply(text(ErrorInvalidMultiplier, CancelKeyboard())), nil
		}
		sess.Multiplier = n
		sess.Step = entity.StepPeriod
		return c.next(ctx, sess, text(PromptPeriod, PeriodKeyboard()))

	case entity.StepPeriod:
		if _, err := pricesentity.ParseTimespan(msg); err != nil {
			return reply(text(ErrorInvalidPeriod, PeriodKeyboard())), nil
		}
		sess.Timespan = msg
		sess.Step = entity.StepChartType
		return c.next(ctx, sess, text(PromptChartType, ChartKeyboard()))

	case entity.StepChartType:
		ct, err := pricesentity.ParseChartType(msg)
		if err != nil {
			return reply(text(ErrorInvalidChartType, ChartKeyboard())), nil
		}
		key, err := pricesentity.NewQueryKey(sess.Ticker, sess.Multiplier, sess.Timespan, sess.StartDate, sess.EndDate)
		if err != nil {
			// 保存済みセッションが壊れている場合は最初からやり直させる
			slog.Warn("discarding inconsistent session", "session", sess.Key().String(), "error", err)
			if err := c.clear(ctx, sess.Key()); err != nil {
				return Outcome{}, err
			}
			return reply(text(ErrorUnexpected, MainMenuKeyboard())), nil
		}
		return c.finish(ctx, sess, &Job{Kind: JobChart, Key: key, ChartType: ct}, SuccessGeneratingChart)
	}

	slog.Warn("unknown session step", "session", sess.Key().String(), "step", sess.Step)
	if err := c.clear(ctx, sess.Key()); err != nil {
		return Outcome{}, err
	}
	return reply(text(UnknownMessage, MainMenuKeyboard())), nil
}

func (c *Conversation) next(ctx context.Context, sess *entity.Session, r Reply) (Outcome, error) {
	if err := c.save(ctx, sess); err != nil {
		return Outcome{}, err
	}
	return reply(r), nil
}

// finish ends the dialogue and hands the collected request to the caller.
func (c *Conversation) finish(ctx context.Context, sess *entity.Session, job *Job, progress string) (Outcome, error) {
	if err := c.clear(ctx, sess.Key()); err != nil {
		return Outcome{}, err
	}
	job.UserID = sess.UserID
	job.ChatID = sess.ChatID
	job.Ticker = sess.Ticker
	return Outcome{Replies: []Reply{text(progress, nil)}, Job: job}, nil
}

func (c *Conversation) save(ctx context.Context, sess *entity.Session) error {
	sess.UpdatedAt = c.now().UTC()
	if err := c.sessions.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session %s: %w", sess.Key(), err)
	}
	return nil
}

func (c *Conversation) clear(ctx context.Context, key entity.SessionKey) error {
	if err := c.sessions.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete session %s: %w", key, err)
	}
	return nil
}

func reply(r ...Reply) Outcome {
	return Outcome{Replies: r}
}
