package eventstore

import (
	"slices"
	"strings"
)

type FilterEventTypeString = string
type FilterKeyString = string
type FilterValString = string

/***** Filter *****/

// Filter selects a "dynamic event stream". An empty Filter selects all events.
type Filter struct {
	items []FilterItem
}

func (f Filter) Items() []FilterItem {
	return f.items
}

// Matches reports whether an event with the given type and top-level payload values is selected by the Filter.
// payloadValue must return the string value of a top-level payload key, and false if the key is absent.
//
// Engines that evaluate filters in the database (sqlite, postgres) use it only in tests.
func (f Filter) Matches(eventType string, payloadValue func(key string) (string, bool)) bool {
	if len(f.items) == 0 {
		return true
	}

	for _, item := range f.items {
		if item.matches(eventType, payloadValue) {
			return true
		}
	}

	return false
}

// String renders the Filter in a stable human-readable form, used for log attributes.
func (f Filter) String() string {
	if len(f.items) == 0 {
		return "any"
	}

	parts := make([]string, 0, len(f.items))
	for _, item := range f.items {
		parts = append(parts, item.String())
	}

	return strings.Join(parts, " OR ")
}

/***** FilterItem *****/

type FilterItem struct {
	eventTypes             []FilterEventTypeString
	predicates             []FilterPredicate
	allPredicatesMustMatch bool
}

func (fi FilterItem) EventTypes() []FilterEventTypeString {
	return fi.eventTypes
}

func (fi FilterItem) Predicates() []FilterPredicate {
	return fi.predicates
}

func (fi FilterItem) AllPredicatesMustMatch() bool {
	return fi.allPredicatesMustMatch
}

func (fi FilterItem) String() string {
	var sb strings.Builder

	sb.WriteString("(")
	sb.WriteString(strings.Join(fi.eventTypes, "|"))

	if len(fi.predicates) > 0 {
		glue := "|"
		if fi.allPredicatesMustMatch {
			glue = "&"
		}

		preds := make([]string, 0, len(fi.predicates))
		for _, p := range fi.predicates {
			preds = append(preds, p.key+"="+p.val)
		}

		sb.WriteString(" ")
		sb.WriteString(strings.Join(preds, glue))
	}

	sb.WriteString(")")

	return sb.String()
}

func (fi FilterItem) matches(eventType string, payloadValue func(key string) (string, bool)) bool {
	if len(fi.eventTypes) > 0 && !slices.Contains(fi.eventTypes, eventType) {
		return false
	}

	if len(fi.predicates) == 0 {
		return true
	}

	for _, p := range fi.predicates {
		val, found := payloadValue(p.key)
		hit := found && val == p.val

		if fi.allPredicatesMustMatch && !hit {
			return false
		}

		if !fi.allPredicatesMustMatch && hit {
			return true
		}
	}

	return fi.allPredicatesMustMatch
}

/***** FilterPredicate *****/

type FilterPredicate struct {
	key FilterKeyString
	val FilterValString
}

// P builds a FilterPredicate matching a top-level payload key with a string value.
func P(key FilterKeyString, val FilterValString) FilterPredicate {
	return FilterPredicate{key: key, val: val}
}

func (fp FilterPredicate) Key() FilterKeyString {
	return fp.key
}

func (fp FilterPredicate) Val() FilterValString {
	return fp.val
}

/***** FilterBuilder *****/

// FilterBuilder builds a generic event filter to be used in engine-specific implementations to build queries for
// the specific query language. It only allows "useful" filter combinations for event-sourced workflows:
//
//   - empty filter
//   - (eventType OR eventType...)
//   - (predicate OR predicate...)
//   - (predicate AND predicate...)
//   - ((eventType OR eventType...) AND (predicate OR predicate...))
//   - ((eventType OR eventType...) AND (predicate AND predicate...))
//   - multiple of the above combined with OR -> multiple FilterItem(s)
type FilterBuilder interface {
	// Matching starts a new FilterItem.
	Matching() EmptyFilterItemBuilder

	// MatchingAnyEvent directly creates an empty Filter.
	MatchingAnyEvent() Filter
}

type EmptyFilterItemBuilder interface {
	// AnyEventTypeOf adds one or multiple EventTypes to the current FilterItem.
	AnyEventTypeOf(eventType FilterEventTypeString, eventTypes ...FilterEventTypeString) FilterItemBuilderLackingPredicates

	// AnyPredicateOf adds one or multiple FilterPredicate(s) to the current FilterItem, ANY must match.
	AnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) FilterItemBuilderLackingEventTypes

	// AllPredicatesOf adds one or multiple FilterPredicate(s) to the current FilterItem, ALL must match.
	AllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) FilterItemBuilderLackingEventTypes
}

type FilterItemBuilderLackingPredicates interface {
	AndAnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder
	AndAllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder
	OrMatching() EmptyFilterItemBuilder
	Finalize() Filter
}

type FilterItemBuilderLackingEventTypes interface {
	AndAnyEventTypeOf(eventType FilterEventTypeString, eventTypes ...FilterEventTypeString) CompletedFilterItemBuilder
	OrMatching() EmptyFilterItemBuilder
	Finalize() Filter
}

type CompletedFilterItemBuilder interface {
	// OrMatching finalizes the current FilterItem and starts a new one.
	OrMatching() EmptyFilterItemBuilder

	// Finalize returns the Filter.
	Finalize() Filter
}

// filterBuilder implements all the interfaces of FilterBuilder
type filterBuilder struct {
	filter            Filter
	currentFilterItem FilterItem
}

// BuildEventFilter creates a FilterBuilder which must eventually be finalized with Finalize() or MatchingAnyEvent().
func BuildEventFilter() FilterBuilder {
	return filterBuilder{}
}

func (fb filterBuilder) Matching() EmptyFilterItemBuilder {
	fb.currentFilterItem = FilterItem{}

	return fb
}

// AnyEventTypeOf adds EventTypes expecting ANY of them to match.
//
// It sanitizes the input:
//   - removing empty EventTypes ("")
//   - sorting the EventTypes
//   - removing duplicate EventTypes
func (fb filterBuilder) AnyEventTypeOf(
	eventType FilterEventTypeString,
	eventTypes ...FilterEventTypeString,
) FilterItemBuilderLackingPredicates {

	fb.currentFilterItem.eventTypes = fb.sanitizeEventTypes(
		append(fb.currentFilterItem.eventTypes, append([]FilterEventTypeString{eventType}, eventTypes...)...),
	)

	return fb
}

func (fb filterBuilder) AndAnyEventTypeOf(
	eventType FilterEventTypeString,
	eventTypes ...FilterEventTypeString,
) CompletedFilterItemBuilder {

	return fb.AnyEventTypeOf(eventType, eventTypes...)
}

func (fb filterBuilder) sanitizeEventTypes(eventTypes []FilterEventTypeString) []FilterEventTypeString {
	allEventTypes := slices.Clone(eventTypes)
	allEventTypes = slices.DeleteFunc(allEventTypes, func(e FilterEventTypeString) bool { return e == "" })
	slices.Sort(allEventTypes)
	allEventTypes = slices.Compact(allEventTypes)

	return slices.Clip(allEventTypes)
}

// AnyPredicateOf adds FilterPredicate(s) expecting ANY of them to match.
//
// It sanitizes the input:
//   - removing empty/partial FilterPredicate(s) (key or val is "")
//   - sorting the FilterPredicate(s)
//   - removing duplicate FilterPredicate(s)
func (fb filterBuilder) AnyPredicateOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) FilterItemBuilderLackingEventTypes {

	fb.currentFilterItem.predicates = fb.sanitizePredicates(
		append(fb.currentFilterItem.predicates, append([]FilterPredicate{predicate}, predicates...)...),
	)

	return fb
}

func (fb filterBuilder) AndAnyPredicateOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) CompletedFilterItemBuilder {

	return fb.AnyPredicateOf(predicate, predicates...)
}

// AllPredicatesOf adds FilterPredicate(s) expecting ALL of them to match.
func (fb filterBuilder) AllPredicatesOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) FilterItemBuilderLackingEventTypes {

	fb.currentFilterItem.allPredicatesMustMatch = true

	return fb.AnyPredicateOf(predicate, predicates...)
}

func (fb filterBuilder) AndAllPredicatesOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) CompletedFilterItemBuilder {

	return fb.AllPredicatesOf(predicate, predicates...)
}

func (fb filterBuilder) sanitizePredicates(predicates []FilterPredicate) []FilterPredicate {
	allPredicates := slices.Clone(predicates)
	allPredicates = slices.DeleteFunc(allPredicates, func(p FilterPredicate) bool { return p.key == "" || p.val == "" })
	slices.SortFunc(allPredicates, func(a, b FilterPredicate) int {
		if c := strings.Compare(a.key, b.key); c != 0 {
			return c
		}

		return strings.Compare(a.val, b.val)
	})
	allPredicates = slices.Compact(allPredicates)

	return slices.Clip(allPredicates)
}

// OrMatching finalizes the current FilterItem and starts a new one.
func (fb filterBuilder) OrMatching() EmptyFilterItemBuilder {
	fb.filter.items = append(slices.Clone(fb.filter.items), fb.currentFilterItem)
	fb.currentFilterItem = FilterItem{}

	return fb
}

// MatchingAnyEvent directly creates an empty filter.
func (fb filterBuilder) MatchingAnyEvent() Filter {
	return fb.filter
}

// Finalize returns the Filter with the current FilterItem appended, if it has at least one EventType OR one Predicate.
func (fb filterBuilder) Finalize() Filter {
	items := slices.Clone(fb.filter.items)

	if len(fb.currentFilterItem.eventTypes) > 0 || len(fb.currentFilterItem.predicates) > 0 {
		items = append(items, fb.currentFilterItem)
	}

	return Filter{items: items}
}
