package httpapi

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/ledgerkeep/ledgerkeep/internal/common"
	"github.com/ledgerkeep/ledgerkeep/internal/server/expenses"
)

func paramInt64(c *fiber.Ctx, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil {
		return 0, common.ErrInvalidInput
	}
	return v, nil
}

func paramInt(c *fiber.Ctx, name string) (int, error) {
	v, err := strconv.Atoi(c.Params(name))
	if err != nil {
		return 0, common.ErrInvalidInput
	}
	return v, nil
}

type createAccountRequest struct {
	Name string `json:"name"`
}

type membershipRequest struct {
	AccountID int64  `json:"accountId"`
	UserID    string `json:"userId"`
}

type monthValueRequest struct {
	AccountID int64   `json:"accountId"`
	Month     int     `json:"month"`
	Year      int     `json:"year"`
	Value     float64 `json:"value"`
}

type valueRequest struct {
	Value float64 `json:"value"`
}

type updateExpenseRequest struct {
	Value       float64 `json:"value"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
}

func (s *Server) handleListAccounts(c *fiber.Ctx) error {
	result, err := s.accounts.List(c.Context(), getClaims(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result)
}

func (s *Server) handleCreateAccount(c *fiber.Ctx) error {
	var req createAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, common.ErrInvalidInput)
	}

	account, err := s.accounts.Create(c.Context(), getClaims(c), req.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(account)
}

func (s *Server) handleListMemberships(c *fiber.Ctx) error {
	result, err := s.memberships.List(c.Context(), getClaims(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result)
}

func (s *Server) handleCreateMembership(c *fiber.Ctx) error {
	var req membershipRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, common.ErrInvalidInput)
	}

	m, err := s.memberships.Create(c.Context(), getClaims(c), req.AccountID, req.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

func (s *Server) handleMyMemberships(c *fiber.Ctx) error {
	result, err := s.memberships.MyMemberships(c.Context(), getClaims(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result)
}

func (s *Server) handleAccountMemberships(c *fiber.Ctx) error {
	accountID, err := paramInt64(c, "accountId")
	if err != nil {
		return writeError(c, err)
	}

	result, err := s.memberships.AccountMemberships(c.Context(), getClaims(c), accountID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result)
}

func (s *Server) handleDeleteMembership(c *fiber.Ctx) error {
	accountID, err := paramInt64(c, "accountId")
	if err != nil {
		return writeError(c, err)
	}
	userID := c.Params("userId")

	if err := s.memberships.Delete(c.Context(), getClaims(c), accountID, userID); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleAssignManager(c *fiber.Ctx) error {
	var req membershipRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, common.ErrInvalidInput)
	}

	if err := s.memberships.AssignManager(c.Context(), getClaims(c), req.AccountID, req.UserID); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (s *Server) handleListBudgets(c *fiber.Ctx) error {
	result, err := s.budgets.List(c.Context(), getClaims(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result)
}

func (s *Server) handleCreateBudget(c *fiber.Ctx) error {
	var req monthValueRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, common.ErrInvalidInput)
	}

	b, err := s.budgets.Create(c.Context(), getClaims(c), req.AccountID, req.Year, req.Month, req.Value)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(b)
}

func (s *Server) handleUpdateBudget(c *fiber.Ctx) error {
	id, err := paramInt64(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req valueRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, common.ErrInvalidInput)
	}

	if err := s.budgets.UpdateValue(c.Context(), getClaims(c), id, req.Value); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (s *Server) handleDeleteBudget(c *fiber.Ctx) error {
	id, err := paramInt64(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := s.budgets.Delete(c.Context(), getClaims(c), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleAccountBudgets(c *fiber.Ctx) error {
	accountID, err := paramInt64(c, "accountId")
	if err != nil {
		return writeError(c, err)
	}

	result, err := s.budgets.ListByAccount(c.Context(), getClaims(c), accountID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result)
}

func (s *Server) handleListExpenses(c *fiber.Ctx) error {
	result, err := s.expenses.List(c.Context(), getClaims(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result)
}

func (s *Server) handleCreateExpense(c *fiber.Ctx) error {
	var req expenses.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, common.ErrInvalidInput)
	}

	e, err := s.expenses.Create(c.Context(), getClaims(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(e)
}

func (s *Server) handleUpdateExpense(c *fiber.Ctx) error {
	id, err := paramInt64(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req updateExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, common.ErrInvalidInput)
	}

	if err := s.expenses.Update(c.Context(), getClaims(c), id, req.Value, req.Description, req.Category); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (s *Server) handleDeleteExpense(c *fiber.Ctx) error {
	id, err := paramInt64(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := s.expenses.Delete(c.Context(), getClaims(c), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleAccountExpenses(c *fiber.Ctx) error {
	accountID, err := paramInt64(c, "accountId")
	if err != nil {
		return writeError(c, err)
	}

	result, err := s.expenses.ListByAccount(c.Context(), getClaims(c), accountID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result)
}

func (s *Server) handleListIncomes(c *fiber.Ctx) error {
	result, err := s.incomes.List(c.Context(), getClaims(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result)
}

func (s *Server) handleCreateIncome(c *fiber.Ctx) error {
	var req monthValueRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, common.ErrInvalidInput)
	}

	in, err := s.incomes.Create(c.Context(), getClaims(c), req.AccountID, req.Year, req.Month, req.Value)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(in)
}

func (s *Server) handleUpdateIncome(c *fiber.Ctx) error {
	id, err := paramInt64(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req valueRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, common.ErrInvalidInput)
	}

	if err := s.incomes.UpdateValue(c.Context(), getClaims(c), id, req.Value); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (s *Server) handleDeleteIncome(c *fiber.Ctx) error {
	id, err := paramInt64(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := s.incomes.Delete(c.Context(), getClaims(c), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleAccountIncomes(c *fiber.Ctx) error {
	accountID, err := paramInt64(c, "accountId")
	if err != nil {
		return writeError(c, err)
	}

	result, err := s.incomes.ListByAccount(c.Context(), getClaims(c), accountID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result)
}

func (s *Server) handleMonthReport(c *fiber.Ctx) error {
	accountID, err := paramInt64(c, "accountId")
	if err != nil {
		return writeError(c, err)
	}
	year, err := paramInt(c, "year")
	if err != nil {
		return writeError(c, err)
	}
	month, err := paramInt(c, "month")
	if err != nil {
		return writeError(c, err)
	}

	url, err := s.reports.GenerateMonthReport(c.Context(), getClaims(c), accountID, year, month)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"url": url})
}

func (s *Server) handleYearReport(c *fiber.Ctx) error {
	accountID, err := paramInt64(c, "accountId")
	if err != nil {
		return writeError(c, err)
	}
	year, err := paramInt(c, "year")
	if err != nil {
		return writeError(c, err)
	}

	url, err := s.reports.GenerateYearReport(c.Context(), getClaims(c), accountID, year)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"url": url})
}
