package cnd

import (
	"encoding/json"
	"fmt"
)

// Entity is a siren hypermedia document as served by the daemon.
type Entity struct {
	Class      []string        `json:"class,omitempty"`
	Rel        []string        `json:"rel,omitempty"`
	Properties json.RawMessage `json:"properties,omitempty"`
	Entities   []Entity        `json:"entities,omitempty"`
	Actions    []Action        `json:"actions,omitempty"`
	Links      []Link          `json:"links,omitempty"`
}

type Link struct {
	Rel   []string `json:"rel"`
	Href  string   `json:"href"`
	Class []string `json:"class,omitempty"`
	Title string   `json:"title,omitempty"`
}

// Action is a state transition the daemon currently offers.
type Action struct {
	Name   string   `json:"name"`
	Class  []string `json:"class,omitempty"`
	Method string   `json:"method,omitempty"`
	Href   string   `json:"href"`
	Title  string   `json:"title,omitempty"`
	Type   string   `json:"type,omitempty"`
	Fields []Field  `json:"fields,omitempty"`
}

// Field is an input the daemon expects when an action is submitted. Its class
// tags tell which ledger and purpose the value is for.
type Field struct {
	Name  string      `json:"name"`
	Class []string    `json:"class,omitempty"`
	Type  string      `json:"type,omitempty"`
	Value interface{} `json:"value,omitempty"`
	Title string      `json:"title,omitempty"`
}

func (field Field) HasClass(class string) bool {
	return contains(field.Class, class)
}

// Action returns the action with the given name if the entity currently
// offers it.
func (entity Entity) Action(name string) (Action, bool) {
	for _, action := range entity.Actions {
		if action.Name == name {
			return action, true
		}
	}
	return Action{}, false
}

// Link returns the first link with the given relation.
func (entity Entity) Link(rel string) (Link, bool) {
	for _, link := range entity.Links {
		if contains(link.Rel, rel) {
			return link, true
		}
	}
	return Link{}, false
}

// SelfHref returns the href of the "self" link.
func (entity Entity) SelfHref() (string, bool) {
	link, ok := entity.Link("self")
	if !ok || link.Href == "" {
		return "", false
	}
	return link.Href, true
}

func (entity Entity) DecodeProperties(v interface{}) error {
	if len(entity.Properties) == 0 {
		return fmt.Errorf("entity has no properties")
	}
	return json.Unmarshal(entity.Properties, v)
}

// SwapProperties decodes the properties of a swap entity.
func (entity Entity) SwapProperties() (SwapProperties, error) {
	var props SwapProperties
	if err := entity.DecodeProperties(&props); err != nil {
		return SwapProperties{}, fmt.Errorf("invalid swap properties: %w", err)
	}
	return props, nil
}

func contains(list []string, item string) bool {
	for _, elem := range list {
		if elem == item {
			return true
		}
	}
	return false
}
