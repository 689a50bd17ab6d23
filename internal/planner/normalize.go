package planner

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/elecmate/maintenance-planner/internal/models"
)

// taskFields maps each canonical task field to the source names the model
// has been seen to use for it, most specific first.
var taskFields = map[string][]string{
	"task":                     {"taskName", "task", "title", "name", "description"},
	"description":              {"description", "details", "taskDescription", "taskName", "task", "title"},
	"interval":                 {"interval", "frequency", "schedule", "period", "recurrence"},
	"priority":                 {"priority", "urgency", "importance"},
	"category":                 {"category", "taskType", "type"},
	"estimatedDurationMinutes": {"estimatedDurationMinutes", "durationMinutes", "estimatedDuration", "duration", "estimatedTime"},
	"estimatedCost":            {"estimatedCost", "cost", "costEstimate", "estimatedCostRange"},
	"requiredTools":            {"requiredTools", "tools", "toolsRequired", "equipmentNeeded"},
	"requiredQualifications":   {"requiredQualifications", "qualifications", "competency", "competencies"},
	"procedure":                {"procedure", "steps", "procedureSteps", "method"},
	"safetyPrecautions":        {"safetyPrecautions", "safety", "precautions", "safetyNotes", "safetyRequirements"},
	"regulation":               {"regulation", "regulationReference", "regulations", "bs7671Reference", "standard"},
}

// Flat cost fields used when no cost object is present.
var (
	costMinFields = []string{"estimatedCostMin", "costMin", "minCost"}
	costMaxFields = []string{"estimatedCostMax", "costMax", "maxCost"}
)

const (
	defaultTaskName = "Maintenance task"
	defaultPriority = "medium"
	defaultCategory = "inspection"
)

// NormalizeTasks maps loosely-shaped schedule entries onto the canonical
// task shape.
func NormalizeTasks(raw []map[string]interface{}) []models.MaintenanceTask {
	tasks := make([]models.MaintenanceTask, 0, len(raw))
	for _, entry := range raw {
		tasks = append(tasks, NormalizeTask(entry))
	}
	return tasks
}

func NormalizeTask(entry map[string]interface{}) models.MaintenanceTask {
	field := func(canonical string) interface{} {
		return lookup(entry, taskFields[canonical])
	}

	task := models.MaintenanceTask{
		Task:                   asString(field("task")),
		Description:            asString(field("description")),
		Interval:               asString(field("interval")),
		Priority:               normalizePriority(asString(field("priority"))),
		Category:               strings.ToLower(asString(field("category"))),
		RequiredTools:          StringList(field("requiredTools")),
		RequiredQualifications: StringList(field("requiredQualifications")),
		Procedure:              StringList(field("procedure")),
		SafetyPrecautions:      StringList(field("safetyPrecautions")),
		Regulation:             asString(field("regulation")),
	}

	if task.Task == "" {
		task.Task = defaultTaskName
	}
	if task.Description == "" {
		task.Description = task.Task
	}
	if task.Category == "" {
		task.Category = defaultCategory
	}
	if minutes, ok := durationMinutes(field("estimatedDurationMinutes")); ok {
		task.EstimatedDurationMinutes = minutes
	}
	task.EstimatedCost = costRange(field("estimatedCost"), entry)

	return task
}

func lookup(entry map[string]interface{}, names []string) interface{} {
	for _, name := range names {
		v, ok := entry[name]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return v
	}
	return nil
}

func normalizePriority(p string) string {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "high", "critical", "urgent":
		return "high"
	case "low":
		return "low"
	default:
		return defaultPriority
	}
}

func asString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case []interface{}:
		return strings.Join(StringList(val), "; ")
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

// StringList accepts a list of strings, a single string (one item, or one
// per line) or a list of mixed scalars, and drops empty entries.
func StringList(v interface{}) []string {
	out := []string{}
	switch val := v.(type) {
	case nil:
	case string:
		for _, line := range strings.Split(val, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				out = append(out, line)
			}
		}
	case []string:
		for _, s := range val {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []interface{}:
		for _, item := range val {
			if obj, nested := item.(map[string]interface{}); nested {
				if s := objectText(obj); s != "" {
					out = append(out, s)
				}
				continue
			}
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
	default:
		if s := asString(val); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Keys that usually hold the sentence of a step given as an object, e.g.
// {"step": 1, "action": "Isolate the supply"}.
var itemTextKeys = []string{"text", "action", "instruction", "description", "precaution", "detail", "item", "step", "name", "title"}

// objectText returns the first non-empty string value of obj, preferring
// itemTextKeys and then the remaining keys in sorted order. Objects with no
// string value yield "".
func objectText(obj map[string]interface{}) string {
	for _, key := range itemTextKeys {
		if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}

	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

var leadingNumber = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// asNumber accepts numbers and strings that start with one ("45 minutes").
func asNumber(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		match := leadingNumber.FindString(strings.ReplaceAll(val, ",", ""))
		if match == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(match, 64)
		return f, err == nil
	}
	return 0, false
}

func durationMinutes(v interface{}) (float64, bool) {
	minutes, ok := asNumber(v)
	if !ok || minutes < 0 {
		return 0, false
	}
	if s, isString := v.(string); isString && strings.Contains(strings.ToLower(s), "hour") {
		minutes *= 60
	}
	return minutes, true
}

func costRange(v interface{}, entry map[string]interface{}) *models.CostRange {
	if obj, ok := v.(map[string]interface{}); ok {
		minVal, minOK := asNumber(lookup(obj, []string{"min", "minimum", "low"}))
		maxVal, maxOK := asNumber(lookup(obj, []string{"max", "maximum", "high"}))
		return orderedRange(minVal, minOK, maxVal, maxOK)
	}
	if single, ok := asNumber(v); ok {
		if s, isString := v.(string); isString {
			// "£50-£100" style ranges
			if nums := leadingNumber.FindAllString(strings.ReplaceAll(s, ",", ""), 2); len(nums) == 2 {
				lo, _ := strconv.ParseFloat(nums[0], 64)
				hi, _ := strconv.ParseFloat(strings.TrimPrefix(nums[1], "-"), 64)
				return orderedRange(lo, true, hi, true)
			}
		}
		return &models.CostRange{Min: single, Max: single}
	}

	minVal, minOK := asNumber(lookup(entry, costMinFields))
	maxVal, maxOK := asNumber(lookup(entry, costMaxFields))
	return orderedRange(minVal, minOK, maxVal, maxOK)
}

func orderedRange(minVal float64, minOK bool, maxVal float64, maxOK bool) *models.CostRange {
	switch {
	case minOK && maxOK:
		return &models.CostRange{Min: math.Min(minVal, maxVal), Max: math.Max(minVal, maxVal)}
	case minOK:
		return &models.CostRange{Min: minVal, Max: minVal}
	case maxOK:
		return &models.CostRange{Min: maxVal, Max: maxVal}
	default:
		return nil
	}
}
