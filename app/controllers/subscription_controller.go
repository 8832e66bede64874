package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/kurslyhq/kursly/app/repository"
	"github.com/kurslyhq/kursly/internal/pkg/cache"
	"github.com/kurslyhq/kursly/internal/pkg/entitlements"
	"github.com/kurslyhq/kursly/internal/pkg/usercontext"
)

// subscriptionStatus is the entitlement read interface consumed by the
// catalog and settings UI.
type subscriptionStatus struct {
	IsSubscribed     bool         `json:"is_subscribed"`
	SubscriptionPlan *planSummary `json:"subscription_plan,omitempty"`
	Status           string       `json:"status,omitempty"`
	CurrentPeriodEnd *time.Time   `json:"current_period_end,omitempty"`
}

type planSummary struct {
	Name         string `json:"name"`
	Tier         string `json:"tier"`
	PriceMonthly int64  `json:"price_monthly"`
}

// HandleGetSubscription returns the caller's entitlement state, served
// from the Redis cache when possible.
func HandleGetSubscription(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	entCache := entitlements.NewCache(cache.GetClient())
	if cached := entCache.Get(c.Context(), userCtx.UserID); cached != "" {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(cached)
	}

	status, err := loadSubscriptionStatus(userCtx.UserID)
	if err != nil {
		log.Printf("subscription status: user=%d lookup failed: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "subscription_lookup_failed"})
	}

	if body, err := json.Marshal(status); err == nil {
		entCache.Set(c.Context(), userCtx.UserID, string(body))
	}
	return c.JSON(status)
}

func loadSubscriptionStatus(userID uint) (*subscriptionStatus, error) {
	repos := repository.GetGlobalFactory().GetRepositories()

	sub, err := repos.Subscription.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &subscriptionStatus{IsSubscribed: false}, nil
		}
		return nil, err
	}

	status := &subscriptionStatus{
		IsSubscribed:     sub.IsSubscribed,
		Status:           sub.Status,
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
	}
	if plan, err := repos.Plan.GetByID(sub.SubscriptionPlanID); err == nil {
		status.SubscriptionPlan = &planSummary{
			Name:         plan.Name,
			Tier:         plan.Tier,
			PriceMonthly: plan.PriceMonthly,
		}
	}
	return status, nil
}

// HandleListPlans returns the active plan catalog.
func HandleListPlans(c *fiber.Ctx) error {
	plans, err := repository.GetGlobalFactory().GetPlanRepository().ListActive()
	if err != nil {
		log.Printf("plan catalog: list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "plan_lookup_failed"})
	}
	return c.JSON(fiber.Map{"plans": plans})
}

// HandleCourseAccess evaluates the access predicate for one course.
// Anonymous callers are allowed through for free-tier courses.
func HandleCourseAccess(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil || courseID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_course_id"})
	}

	repos := repository.GetGlobalFactory().GetRepositories()
	course, err := repos.Course.GetByID(uint(courseID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "course_not_found"})
		}
		log.Printf("course access: course=%d lookup failed: %v", courseID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "course_lookup_failed"})
	}

	userCtx := usercontext.GetUserContext(c)
	requiredTier := entitlements.NormalizeTier(course.RequiredTier)

	if !userCtx.IsLoggedIn {
		return c.JSON(fiber.Map{"allowed": entitlements.IsEntitled(nil, "", requiredTier)})
	}

	sub, err := repos.Subscription.GetByUserID(userCtx.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("course access: user=%d subscription lookup failed: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "subscription_lookup_failed"})
	}

	planTier := ""
	if sub != nil {
		if plan, err := repos.Plan.GetByID(sub.SubscriptionPlanID); err == nil {
			planTier = plan.Tier
		}
	}

	return c.JSON(fiber.Map{"allowed": entitlements.IsEntitled(sub, planTier, requiredTier)})
}
