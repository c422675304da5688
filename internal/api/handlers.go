package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/julianstephens/hustle/internal/aggregate"
	"github.com/julianstephens/hustle/internal/calendar"
	"github.com/julianstephens/hustle/internal/constants"
	"github.com/julianstephens/hustle/internal/insights"
	"github.com/julianstephens/hustle/internal/logger"
)

type weekResponse struct {
	aggregate.WeekReport
	Offset   int    `json:"offset"`
	Label    string `json:"label"`
	Degraded bool   `json:"degraded"`
}

// weekStats reports the week at ?offset= from the current week, or the week
// containing ?date= when given.
func (s *Server) weekStats(c *fiber.Ctx) error {
	today := s.today()
	offset := c.QueryInt("offset", 0)
	if raw := c.Query("date"); raw != "" {
		n, err := calendar.WeeksBetween(raw, today)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		}
		offset = n
	}

	w := calendar.WeekWindow(calendar.OffsetWeek(today, offset))
	report, err := s.deps.Engine.Week(c.UserContext(), ownerOf(c), w)
	resp := weekResponse{WeekReport: report, Offset: offset, Label: calendar.WeekLabel(offset)}
	if err != nil {
		logger.Warn("week stats degraded", "owner", ownerOf(c), "error", err)
		resp.Degraded = true
	}
	return c.JSON(resp)
}

type overviewResponse struct {
	aggregate.Overview
	Percent  int  `json:"percent"`
	Degraded bool `json:"degraded"`
}

func (s *Server) overview(c *fiber.Ctx, w calendar.Window) error {
	ov, err := s.deps.Engine.Overview(c.UserContext(), ownerOf(c), w)
	resp := overviewResponse{Overview: ov, Percent: ov.Tasks.Percent()}
	if err != nil {
		logger.Warn("range stats degraded", "owner", ownerOf(c), "window", w.String(), "error", err)
		resp.Degraded = true
	}
	return c.JSON(resp)
}

// monthStats takes ?year= and a 1-based ?month=, defaulting to the current month.
func (s *Server) monthStats(c *fiber.Ctx) error {
	today := s.today()
	year := c.QueryInt("year", today.Year)
	month := c.QueryInt("month", int(today.Month))
	if month < 1 || month > 12 {
		return fiber.NewError(fiber.StatusBadRequest, "month must be between 1 and 12")
	}
	return s.overview(c, calendar.MonthWindow(year, month-1))
}

func (s *Server) customStats(c *fiber.Ctx) error {
	mode := constants.CustomMode(c.Query("mode", string(constants.CustomModeWeekly)))
	if mode != constants.CustomModeWeekly && mode != constants.CustomModeMonthly {
		return fiber.NewError(fiber.StatusBadRequest, "mode must be weekly or monthly")
	}
	return s.overview(c, calendar.ParseCustomWindow(mode, c.Query("from"), c.Query("to")))
}

func (s *Server) generateInsights(c *fiber.Ctx) error {
	var sel insights.Selection
	if err := c.BodyParser(&sel); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := sel.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(s.deps.Insights.Run(c.UserContext(), ownerOf(c), sel))
}

func (s *Server) day(c *fiber.Ctx) error {
	d, err := s.dateValue(c.Params("date"))
	if err != nil {
		return err
	}
	view, err := s.deps.Planner.Day(c.UserContext(), ownerOf(c), d)
	if err != nil {
		return err
	}
	return c.JSON(view)
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
}

func (s *Server) createTask(c *fiber.Ctx) error {
	var req createTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	due, err := s.dateValue(req.DueDate)
	if err != nil {
		return err
	}
	task, err := s.deps.Planner.AddTask(c.UserContext(), ownerOf(c), req.Title, req.Description, due)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

type completionRequest struct {
	Completed bool `json:"completed"`
}

func (s *Server) setTaskCompletion(c *fiber.Ctx) error {
	var req completionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := s.deps.Planner.SetTaskCompletion(c.UserContext(), ownerOf(c), c.Params("id"), req.Completed); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"id": c.Params("id"), "completed": req.Completed})
}

type createHourlyTaskRequest struct {
	Date        string `json:"date"`
	Hour        *int   `json:"hour"`
	Description string `json:"description"`
}

func (s *Server) createHourlyTask(c *fiber.Ctx) error {
	var req createHourlyTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Hour == nil {
		return fiber.NewError(fiber.StatusBadRequest, "hour is required")
	}
	d, err := s.dateValue(req.Date)
	if err != nil {
		return err
	}
	task, err := s.deps.Planner.AddHourlyTask(c.UserContext(), ownerOf(c), d, *req.Hour, req.Description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

func (s *Server) setHourlyTaskCompletion(c *fiber.Ctx) error {
	var req completionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := s.deps.Planner.SetHourlyTaskCompletion(c.UserContext(), ownerOf(c), c.Params("id"), req.Completed); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"id": c.Params("id"), "completed": req.Completed})
}

func (s *Server) listHabits(c *fiber.Ctx) error {
	d, err := s.dateValue(c.Query("date"))
	if err != nil {
		return err
	}
	views, err := s.deps.Habits.List(c.UserContext(), ownerOf(c), d)
	if err != nil {
		return err
	}
	return c.JSON(views)
}

type createHabitRequest struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
}

func (s *Server) createHabit(c *fiber.Ctx) error {
	var req createHabitRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	start, err := s.dateValue(req.StartDate)
	if err != nil {
		return err
	}
	h, err := s.deps.Habits.Create(c.UserContext(), ownerOf(c), req.Name, start)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(h)
}

func (s *Server) deleteHabit(c *fiber.Ctx) error {
	if err := s.deps.Habits.Delete(c.UserContext(), ownerOf(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type toggleRequest struct {
	Date string `json:"date"`
}

func (s *Server) toggleHabit(c *fiber.Ctx) error {
	var req toggleRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}
	d, err := s.dateValue(req.Date)
	if err != nil {
		return err
	}
	done, err := s.deps.Habits.Toggle(c.UserContext(), ownerOf(c), c.Params("id"), d)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"id": c.Params("id"), "date": d, "done": done})
}

type journalRequest struct {
	Content string `json:"content"`
}

func (s *Server) saveJournal(c *fiber.Ctx) error {
	var req journalRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	d, err := s.dateValue(c.Params("date"))
	if err != nil {
		return err
	}
	j, err := s.deps.Planner.SaveJournal(c.UserContext(), ownerOf(c), d, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(j)
}

type hourlyRequest struct {
	Entries map[int]string `json:"entries"`
}

func (s *Server) saveHourly(c *fiber.Ctx) error {
	var req hourlyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	d, err := s.dateValue(c.Params("date"))
	if err != nil {
		return err
	}
	n, err := s.deps.Planner.SaveHourly(c.UserContext(), ownerOf(c), d, req.Entries)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"date": d, "saved": n, "skipped": len(req.Entries) - n})
}
