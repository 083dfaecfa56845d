package checks

import (
	"fmt"
	"regexp"
	"sort"
)

var printfRe = regexp.MustCompile(`%(?:([1-9])\$)?([sSd])`)

// getParams extracts printf parameters from a value. It returns a
// sparse map of positions to formatters, the total formatter count,
// and problems for formatters that conflict within the value itself.
func getParams(value string) (map[int]string, int, []Problem) {
	params := make(map[int]string)
	var problems []Problem
	count := 0
	nextImplicit := 1
	for _, m := range printfRe.FindAllStringSubmatchIndex(value, -1) {
		count++
		order := nextImplicit
		if m[2] >= 0 {
			order = int(value[m[2]] - '0')
		} else {
			nextImplicit++
		}
		format := value[m[4]:m[5]]
		prev, seen := params[order]
		if !seen {
			params[order] = format
			continue
		}
		if prev == format {
			continue
		}
		problems = append(problems, Problem{
			Severity: "error",
			Offset:   m[0],
			Message:  fmt.Sprintf("Conflicting formatting, %%%d$%s vs %%%d$%s", order, format, order, prev),
			Category: "printf",
		})
	}
	return params, count, problems
}

// checkParams compares the printf parameters of a localized value
// against the reference parameters. A parameter the reference never
// passes crashes at runtime, so those are errors; unused reference
// parameters only warn.
func checkParams(params map[int]string, count int, value string) []Problem {
	var problems []Problem
	lparams, lcount, internal := getParams(value)
	problems = append(problems, internal...)

	for _, order := range sortedOrders(lparams) {
		if format, ok := params[order]; !ok {
			problems = append(problems, Problem{
				Severity: "error",
				Message:  fmt.Sprintf("Formatter %%%d$%s not found in reference", order, lparams[order]),
				Category: "printf",
			})
		} else if format != lparams[order] {
			problems = append(problems, Problem{
				Severity: "error",
				Message:  "Mismatching formatter",
				Category: "printf",
			})
		}
	}
	for _, order := range sortedOrders(params) {
		if _, ok := lparams[order]; !ok {
			problems = append(problems, Problem{
				Severity: "warning",
				Message:  fmt.Sprintf("Formatter %%%d$%s not found in translation", order, params[order]),
				Category: "printf",
			})
		}
	}
	if len(problems) == 0 && count != lcount {
		problems = append(problems, Problem{
			Severity: "warning",
			Message:  "Formatter count mismatch",
			Category: "printf",
		})
	}
	return problems
}

func sortedOrders(params map[int]string) []int {
	orders := make([]int, 0, len(params))
	for order := range params {
		orders = append(orders, order)
	}
	sort.Ints(orders)
	return orders
}
