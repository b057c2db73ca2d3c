package controllers

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"mutanteweb/backend/database"
	"mutanteweb/backend/onboarding"
)

// maxMachineIdle bounds how long an abandoned wizard session is kept.
const maxMachineIdle = time.Hour

// Onboarding owns one state machine per visitor and maps machine errors to
// HTTP. The machine itself never sees gin.
type Onboarding struct {
	backend onboarding.Backend
	timeout time.Duration

	mu       sync.Mutex
	machines map[string]*entry
}

type entry struct {
	m        *onboarding.Machine
	lastSeen time.Time
}

func NewOnboarding(backend onboarding.Backend, callTimeout time.Duration) *Onboarding {
	return &Onboarding{
		backend:  backend,
		timeout:  callTimeout,
		machines: make(map[string]*entry),
	}
}

func (o *Onboarding) machineFor(visitor string) *onboarding.Machine {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now()
	for k, e := range o.machines {
		if now.Sub(e.lastSeen) > maxMachineIdle {
			delete(o.machines, k)
		}
	}
	e, ok := o.machines[visitor]
	if !ok {
		e = &entry{m: onboarding.NewMachine(o.backend, onboarding.WithCallTimeout(o.timeout))}
		o.machines[visitor] = e
	}
	e.lastSeen = now
	return e.m
}

func respond(c *gin.Context, m *onboarding.Machine, err error) {
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "state": m.Snapshot()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": m.Snapshot()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, onboarding.ErrBusy), errors.Is(err, onboarding.ErrWrongStep):
		return http.StatusConflict
	case errors.Is(err, onboarding.ErrPasswordMismatch), errors.Is(err, onboarding.ErrMissingFields):
		return http.StatusBadRequest
	case errors.Is(err, database.ErrInvalidCredentials), errors.Is(err, onboarding.ErrNotSignedIn):
		return http.StatusUnauthorized
	case errors.Is(err, database.ErrEmailTaken):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

// Open mounts the visitor's machine.
func (o *Onboarding) Open() gin.HandlerFunc {
	return func(c *gin.Context) {
		m := o.machineFor(visitorID(c))
		m.Open(onboarding.SessionState{})
		respond(c, m, nil)
	}
}

// Close unmounts it; the draft survives reopening.
func (o *Onboarding) Close() gin.HandlerFunc {
	return func(c *gin.Context) {
		m := o.machineFor(visitorID(c))
		m.Close()
		respond(c, m, nil)
	}
}

// State returns the current snapshot.
func (o *Onboarding) State() gin.HandlerFunc {
	return func(c *gin.Context) {
		respond(c, o.machineFor(visitorID(c)), nil)
	}
}

// Login submits credentials from the login view.
func (o *Onboarding) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		m := o.machineFor(visitorID(c))
		respond(c, m, m.SubmitLogin(c.Request.Context(), req.Email, req.Password))
	}
}

// Register submits the new-account form.
func (o *Onboarding) Register() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
			Confirm  string `json:"confirm_password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		m := o.machineFor(visitorID(c))
		respond(c, m, m.SubmitRegister(c.Request.Context(), req.Name, req.Email, req.Password, req.Confirm))
	}
}

// ShowRegister and ShowLogin flip between the two auth views.
func (o *Onboarding) ShowRegister() gin.HandlerFunc {
	return func(c *gin.Context) {
		m := o.machineFor(visitorID(c))
		m.ShowRegister()
		respond(c, m, nil)
	}
}

func (o *Onboarding) ShowLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		m := o.machineFor(visitorID(c))
		m.ShowLogin()
		respond(c, m, nil)
	}
}

// SubmitBasics handles wizard step 1.
func (o *Onboarding) SubmitBasics() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req onboarding.Basics
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		m := o.machineFor(visitorID(c))
		respond(c, m, m.SubmitBasics(req))
	}
}

// SubmitOperations handles wizard step 2.
func (o *Onboarding) SubmitOperations() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req onboarding.Operations
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		m := o.machineFor(visitorID(c))
		respond(c, m, m.SubmitOperations(req))
	}
}

// SubmitDigital handles wizard step 3.
func (o *Onboarding) SubmitDigital() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req onboarding.Digital
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		m := o.machineFor(visitorID(c))
		respond(c, m, m.SubmitDigital(req))
	}
}

// Confirm submits step 4, persisting the business record.
func (o *Onboarding) Confirm() gin.HandlerFunc {
	return func(c *gin.Context) {
		m := o.machineFor(visitorID(c))
		respond(c, m, m.Confirm(c.Request.Context()))
	}
}

// Back steps the wizard backwards without data loss.
func (o *Onboarding) Back() gin.HandlerFunc {
	return func(c *gin.Context) {
		m := o.machineFor(visitorID(c))
		respond(c, m, m.Back())
	}
}

// ToggleDay flips one weekday in the draft.
func (o *Onboarding) ToggleDay() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Day string `json:"day"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Day == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		m := o.machineFor(visitorID(c))
		respond(c, m, m.ToggleDay(req.Day))
	}
}

// Logout discards the draft and returns to login.
func (o *Onboarding) Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		m := o.machineFor(visitorID(c))
		respond(c, m, m.Logout())
	}
}
