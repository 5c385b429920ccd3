package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/daypoints/internal/aggregator"
	"github.com/julianstephens/daypoints/internal/chat"
	"github.com/julianstephens/daypoints/internal/constants"
	"github.com/julianstephens/daypoints/internal/registry"
	"github.com/julianstephens/daypoints/internal/scoring"
	"github.com/julianstephens/daypoints/internal/trends"
)

func (s *Server) health(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{"status": "ok", "backend": s.app.Store.Backend()}
	if err := s.app.Store.Ping(c.Request.Context()); err != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
		body["store_error"] = err.Error()
	}
	JSON(c, status, body)
}

func (s *Server) clock(c *gin.Context) {
	clk := s.app.Clock
	now := clk.Now()
	JSON(c, http.StatusOK, gin.H{
		"timezone":  clk.EffectiveTimezone(),
		"source":    clk.Source(),
		"host_zone": clk.HostZone(),
		"today":     clk.Today(),
		"now":       now.Format(time.RFC3339),
		"utc":       now.UTC().Format(time.RFC3339),
	})
}

// date reads a :date path parameter. "today" resolves through the clock.
func (s *Server) date(c *gin.Context) string {
	d := c.Param("date")
	if d == "today" {
		return s.app.Clock.Today()
	}
	return d
}

// intQuery parses an optional integer query parameter.
func intQuery(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		BadRequest(c, name+" must be an integer")
		return 0, false
	}
	return n, true
}

// colorTag accepts palette names as well as hex values.
func colorTag(raw string) string {
	if tag, ok := constants.ResolveColorTag(raw); ok {
		return string(tag)
	}
	return raw
}

func (s *Server) listHabits(c *gin.Context) {
	list := s.app.Registry.List
	if c.Query("all") == "true" {
		list = s.app.Registry.ListAll
	}
	habits, err := list(c.Request.Context())
	if err != nil {
		Error(c, err)
		return
	}
	JSON(c, http.StatusOK, habits, map[string]interface{}{"total": len(habits)})
}

func (s *Server) createHabit(c *gin.Context) {
	var req registry.CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid habit payload")
		return
	}
	req.ColorTag = colorTag(req.ColorTag)

	habit, err := s.app.Registry.Create(c.Request.Context(), req)
	if err != nil {
		Error(c, err)
		return
	}
	JSON(c, http.StatusCreated, habit)
}

func (s *Server) getHabit(c *gin.Context) {
	habit, err := s.app.Registry.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}
	JSON(c, http.StatusOK, habit)
}

func (s *Server) updateHabit(c *gin.Context) {
	var req registry.UpdateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid habit payload")
		return
	}
	if req.ColorTag != nil {
		tag := colorTag(*req.ColorTag)
		req.ColorTag = &tag
	}

	habit, err := s.app.Registry.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		Error(c, err)
		return
	}
	JSON(c, http.StatusOK, habit)
}

func (s *Server) deactivateHabit(c *gin.Context) {
	habit, err := s.app.Registry.Deactivate(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}
	JSON(c, http.StatusOK, habit)
}

func (s *Server) habitStreak(c *gin.Context) {
	asOf := c.Query("as_of")
	if asOf == "" {
		asOf = s.app.Clock.Today()
	}
	streak, err := s.app.Trends.CurrentStreak(c.Request.Context(), c.Param("id"), asOf)
	if err != nil {
		Error(c, err)
		return
	}
	JSON(c, http.StatusOK, gin.H{"habit_id": c.Param("id"), "as_of": asOf, "streak": streak})
}

func (s *Server) habitSeries(c *gin.Context) {
	days, ok := intQuery(c, "days", s.app.TrendDays())
	if !ok {
		return
	}
	series, err := s.app.Trends.HabitSeries(c.Request.Context(), c.Param("id"), c.Query("end"), days)
	if err != nil {
		Error(c, err)
		return
	}
	JSON(c, http.StatusOK, series, map[string]interface{}{
		"days":            days,
		"completion_rate": trends.CompletionRate(series),
	})
}

type dayView struct {
	Date      string         `json:"date"`
	Counts    map[string]int `json:"counts"`
	Instances interface{}    `json:"instances"`
	Score     interface{}    `json:"score"`
}

func (s *Server) dayTracking(c *gin.Context) {
	ctx := c.Request.Context()
	date := s.date(c)

	instances, err := s.app.Ledger.ListByDate(ctx, date)
	if err != nil {
		Error(c, err)
		return
	}
	counts := make(map[string]int, len(instances))
	for _, inst := range instances {
		counts[inst.HabitID]++
	}
	score, err := s.app.Aggregator.GetDailyScore(ctx, date)
	if err != nil {
		Error(c, err)
		return
	}
	JSON(c, http.StatusOK, dayView{Date: date, Counts: counts, Instances: instances, Score: score},
		map[string]interface{}{"max_instances_per_day": constants.MaxInstancesPerDay})
}

// addInstance records a completion and recomputes the day so the stored
// total follows the ledger.
func (s *Server) addInstance(c *gin.Context) {
	ctx := c.Request.Context()
	date := s.date(c)

	entry, err := s.app.Ledger.AddInstance(ctx, c.Param("habitId"), date)
	if err != nil {
		Error(c, err)
		return
	}
	totals, err := s.app.Aggregator.ComputeAndPersist(ctx, date)
	if err != nil {
		Error(c, err)
		return
	}
	JSON(c, http.StatusCreated, gin.H{"entry": entry, "totals": totals})
}

func (s *Server) removeInstance(c *gin.Context) {
	ctx := c.Request.Context()
	date := s.date(c)

	if err := s.app.Ledger.RemoveLastInstance(ctx, c.Param("habitId"), date); err != nil {
		Error(c, err)
		return
	}
	totals, err := s.app.Aggregator.ComputeAndPersist(ctx, date)
	if err != nil {
		Error(c, err)
		return
	}
	JSON(c, http.StatusOK, gin.H{"totals": totals})
}

func (s *Server) clearDay(c *gin.Context) {
	if c.Query("confirm") != "true" {
		BadRequest(c, "clearing a day requires confirm=true")
		return
	}
	ctx := c.Request.Context()
	date := s.date(c)

	removed, err := s.app.Ledger.ClearByDate(ctx, date)
	if err != nil {
		Error(c, err)
		return
	}
	totals, err := s.app.Aggregator.ComputeAndPersist(ctx, date)
	if err != nil {
		Error(c, err)
		return
	}
	JSON(c, http.StatusOK, gin.H{"removed": removed, "totals": totals})
}

func (s *Server) getScore(c *gin.Context) {
	date := s.date(c)
	score, err := s.app.Aggregator.GetDailyScore(c.Request.Context(), date)
	if err != nil {
		Error(c, err)
		return
	}
	if score == nil {
		JSON(c, http.StatusOK, aggregator.Totals{Date: date}, map[string]interface{}{"stored": false})
		return
	}
	JSON(c, http.StatusOK, aggregator.Totals{
		Date:            score.Date,
		HabitScoreTotal: score.HabitScoreTotal,
		NotePoints:      score.NotePoints,
		TotalScore:      score.TotalScore(),
	}, map[string]interface{}{"stored": true, "daily_note": score.DailyNote})
}

func (s *Server) computeScore(c *gin.Context) {
	totals, err := s.app.Aggregator.Finalize(c.Request.Context(), s.date(c))
	if err != nil {
		Error(c, err)
		return
	}
	JSON(c, http.StatusOK, totals)
}

type noteRequest struct {
	Text string `json:"text"`
}

func (s *Server) saveNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid note payload")
		return
	}
	res, err := s.app.Aggregator.SaveNote(c.Request.Context(), s.date(c), req.Text)
	if err != nil {
		Error(c, err)
		return
	}
	JSON(c, http.StatusOK, res, map[string]interface{}{
		"chars_per_point": constants.NoteCharsPerPoint,
		"chars_to_next":   constants.NoteCharsPerPoint - scoring.NoteLength(req.Text)%constants.NoteCharsPerPoint,
		"max_note_length": s.app.Config.Limits.MaxNoteLength,
	})
}

func (s *Server) dailyTrend(c *gin.Context) {
	days, ok := intQuery(c, "days", s.app.TrendDays())
	if !ok {
		return
	}
	series, cached, err := s.app.DailySeries(c.Request.Context(), c.Query("end"), days)
	if err != nil {
		Error(c, err)
		return
	}
	JSON(c, http.StatusOK, series, map[string]interface{}{"days": days, "cached": cached})
}

func (s *Server) sendChat(c *gin.Context) {
	var req chat.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid chat payload")
		return
	}
	resp, err := s.app.Chat.Send(c.Request.Context(), req)
	if err != nil {
		Error(c, err)
		return
	}
	s.app.Metrics.RecordChatReply(resp.Simulated, resp.TokensUsed)
	JSON(c, http.StatusOK, resp)
}

func (s *Server) chatHistory(c *gin.Context) {
	limit, ok := intQuery(c, "limit", constants.DefaultHistoryLimit)
	if !ok {
		return
	}
	userID := c.Query("user_id")
	if userID == "" {
		userID = constants.DefaultChatUserID
	}
	sessionID := c.Param("sessionId")

	convs, err := s.app.Chat.History(c.Request.Context(), userID, sessionID, limit)
	if err != nil {
		Error(c, err)
		return
	}
	JSON(c, http.StatusOK, convs, map[string]interface{}{
		"total":      len(convs),
		"user_id":    userID,
		"session_id": sessionID,
	})
}

func (s *Server) chatInfo(c *gin.Context) {
	JSON(c, http.StatusOK, s.app.Chat.Info(c.Request.Context()), map[string]interface{}{
		"version": constants.Version,
	})
}
