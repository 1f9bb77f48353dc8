package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staff-bot/internal/config"
	"staff-bot/internal/models"
)

func testResolver() *Resolver {
	return NewResolver(&config.Staff{
		Employees: []config.Employee{
			{Name: "Давыдова Анна", Aliases: []string{"Давыдова А.", "Давыдова"}},
			{Name: "Куйкин Иван", Blacklisted: true},
			{Name: "Антуфьева Ольга", Aliases: []string{"Антуфьева"}, Blacklisted: true},
		},
		ManualEmployees: []string{"Мишра Радж"},
	})
}

func TestMatchCaseCommutative(t *testing.T) {
	for _, reg := range []string{"Ivanov", "ivanov", "IVANOV"} {
		assert.True(t, Match(reg, "Ivanov Petr"), reg)
	}
	assert.True(t, Match("иванов", "Иванов Петр"))
	assert.False(t, Match("Сидоров", "Иванов Петр"))
}

func TestResolveAliases(t *testing.T) {
	r := testResolver()

	assert.Equal(t, "Давыдова Анна", r.Resolve("Давыдова А."))
	assert.Equal(t, "Давыдова Анна", r.Resolve("давыдова"))
	assert.Equal(t, "Давыдова Анна", r.Resolve("Давыдова Анна Сергеевна"))
	// Unknown names pass through unchanged.
	assert.Equal(t, "Петров", r.Resolve("Петров"))
}

func TestIsBlacklisted(t *testing.T) {
	r := testResolver()

	assert.True(t, r.IsBlacklisted("Куйкин Иван"))
	assert.True(t, r.IsBlacklisted("куйкин"))
	// Blacklist wins even when the name also matches an alias entry.
	assert.True(t, r.IsBlacklisted("Антуфьева"))
	assert.False(t, r.IsBlacklisted("Давыдова"))
	assert.False(t, r.IsBlacklisted(""))
}

func TestAllEmployees(t *testing.T) {
	r := testResolver()
	weeks := []models.WeekSheet{
		{Shifts: []models.ShiftRecord{
			{EmployeeName: "Давыдова Анна"},
			{EmployeeName: "Давыдова А."}, // alias duplicate collapses
			{EmployeeName: "Куйкин Иван"}, // blacklisted
			{EmployeeName: "Петров Семен"},
		}},
		{Shifts: []models.ShiftRecord{
			{EmployeeName: "Антуфьева"}, // blacklisted via alias
		}},
	}

	names := r.AllEmployees(weeks)
	require.Equal(t, []string{"Давыдова Анна", "Мишра Радж", "Петров Семен"}, names)

	for _, n := range names {
		assert.False(t, r.IsBlacklisted(n))
	}
}

func TestAllEmployeesEmptyWeeks(t *testing.T) {
	r := testResolver()
	// Manual additions survive even with no schedule data.
	assert.Equal(t, []string{"Мишра Радж"}, r.AllEmployees(nil))
}
