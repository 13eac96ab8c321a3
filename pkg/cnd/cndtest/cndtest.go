// Package cndtest provides an in-memory daemon for tests.
package cndtest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/catalogfi/comitkit/pkg/cnd"
)

// Execution is an action submitted to the daemon with its resolved fields.
type Execution struct {
	Href   string
	Action string
	Fields map[string]string
}

type scriptedAction struct {
	action     cnd.Action
	afterFetch int
	response   *cnd.Response
	err        error
}

type swapEntry struct {
	props   cnd.SwapProperties
	actions []*scriptedAction
	fetches int
}

type Daemon struct {
	mu       sync.Mutex
	info     cnd.Info
	swaps    map[string]*swapEntry
	requests []cnd.SwapRequest
	executed []Execution
	fetchErr error
	next     int
	offers   []offer
}

type offer struct {
	name       string
	afterFetch int
}

func New(peerID string) *Daemon {
	return &Daemon{
		info:  cnd.Info{ID: peerID, ListenAddresses: []string{"/ip4/127.0.0.1/tcp/9939"}},
		swaps: map[string]*swapEntry{},
	}
}

// AddSwap registers a swap under the href. Actions already added to the
// href are kept.
func (d *Daemon) AddSwap(href string, props cnd.SwapProperties) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entry(href).props = props
}

// AddAction offers the named action on the swap once the swap has been
// fetched afterFetch times, zero offers it right away. Submitting it returns
// the body.
func (d *Daemon) AddAction(href, name string, fields []cnd.Field, afterFetch int, body interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.addAction(href, name, fields, afterFetch, body)
}

// OfferOnNewSwaps offers the named action on every swap created by PostSwap
// from now on.
func (d *Daemon) OfferOnNewSwaps(name string, afterFetch int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.offers = append(d.offers, offer{name: name, afterFetch: afterFetch})
}

// FailAction makes the submission of the named action fail with err.
func (d *Daemon) FailAction(href, name string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, scripted := range d.entry(href).actions {
		if scripted.action.Name == name {
			scripted.err = err
		}
	}
}

// FailFetches makes every fetch fail with err.
func (d *Daemon) FailFetches(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fetchErr = err
}

func (d *Daemon) Fetches(href string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if entry, ok := d.swaps[href]; ok {
		return entry.fetches
	}
	return 0
}

func (d *Daemon) Executed() []Execution {
	d.mu.Lock()
	defer d.mu.Unlock()
	executed := make([]Execution, len(d.executed))
	copy(executed, d.executed)
	return executed
}

func (d *Daemon) Requests() []cnd.SwapRequest {
	d.mu.Lock()
	defer d.mu.Unlock()
	requests := make([]cnd.SwapRequest, len(d.requests))
	copy(requests, d.requests)
	return requests
}

func (d *Daemon) Info(ctx context.Context) (cnd.Info, error) {
	return d.info, nil
}

func (d *Daemon) PeerID(ctx context.Context) (string, error) {
	return d.info.ID, nil
}

func (d *Daemon) PeerListenAddresses(ctx context.Context) ([]string, error) {
	return d.info.ListenAddresses, nil
}

// PostSwap stores the request and creates a swap for it, with the properties
// the daemon would report.
func (d *Daemon) PostSwap(ctx context.Context, req cnd.SwapRequest) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.next++
	id := fmt.Sprintf("swap-%d", d.next)
	href := "/swaps/rfc003/" + id
	d.requests = append(d.requests, req)
	d.swaps[href] = &swapEntry{props: cnd.SwapProperties{
		ID:           id,
		Counterparty: req.Peer.PeerID,
		Role:         "Alice",
		Protocol:     "rfc003",
		Status:       cnd.StatusInProgress,
		Parameters: cnd.SwapParameters{
			AlphaAsset:  req.AlphaAsset,
			AlphaLedger: req.AlphaLedger,
			BetaAsset:   req.BetaAsset,
			BetaLedger:  req.BetaLedger,
		},
	}}
	for _, o := range d.offers {
		d.addAction(href, o.name, nil, o.afterFetch, nil)
	}
	return href, nil
}

func (d *Daemon) Swaps(ctx context.Context) (cnd.Entity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fetchErr != nil {
		return cnd.Entity{}, d.fetchErr
	}

	hrefs := make([]string, 0, len(d.swaps))
	for href := range d.swaps {
		hrefs = append(hrefs, href)
	}
	sort.Strings(hrefs)

	collection := cnd.Entity{Class: []string{"swaps"}}
	for _, href := range hrefs {
		entity, err := d.entity(href, d.swaps[href])
		if err != nil {
			return cnd.Entity{}, err
		}
		entity.Rel = []string{"item"}
		collection.Entities = append(collection.Entities, entity)
	}
	return collection, nil
}

func (d *Daemon) Fetch(ctx context.Context, path string, v interface{}) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fetchErr != nil {
		return d.fetchErr
	}

	entry, ok := d.swaps[path]
	if !ok {
		return &cnd.Problem{Title: "Swap not found", Status: http.StatusNotFound}
	}
	entry.fetches++
	entity, err := d.entity(path, entry)
	if err != nil {
		return err
	}
	data, err := json.Marshal(entity)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// ExecuteAction resolves the fields like the real client does and records the
// submission. Executed actions are no longer offered.
func (d *Daemon) ExecuteAction(ctx context.Context, action cnd.Action, resolve cnd.FieldResolver) (*cnd.Response, error) {
	fields := map[string]string{}
	for _, field := range action.Fields {
		if resolve == nil {
			break
		}
		value, ok, err := resolve(ctx, field)
		if err != nil {
			return nil, err
		}
		if ok && value != "" {
			fields[field.Name] = value
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for href, entry := range d.swaps {
		for i, scripted := range entry.actions {
			if scripted.action.Href != action.Href {
				continue
			}
			if scripted.err != nil {
				return nil, scripted.err
			}
			entry.actions = append(entry.actions[:i], entry.actions[i+1:]...)
			d.executed = append(d.executed, Execution{Href: href, Action: action.Name, Fields: fields})
			return scripted.response, nil
		}
	}
	return nil, &cnd.Problem{Title: "Action not found", Status: http.StatusNotFound, Instance: action.Href}
}

func (d *Daemon) addAction(href, name string, fields []cnd.Field, afterFetch int, body interface{}) {
	resp := &cnd.Response{StatusCode: http.StatusOK, Header: http.Header{}}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		resp.Body = data
	}
	entry := d.entry(href)
	entry.actions = append(entry.actions, &scriptedAction{
		action: cnd.Action{
			Name:   name,
			Method: http.MethodPost,
			Href:   strings.TrimSuffix(href, "/") + "/" + name,
			Type:   "application/json",
			Fields: fields,
		},
		afterFetch: afterFetch,
		response:   resp,
	})
}

func (d *Daemon) entry(href string) *swapEntry {
	entry, ok := d.swaps[href]
	if !ok {
		entry = &swapEntry{}
		d.swaps[href] = entry
	}
	return entry
}

func (d *Daemon) entity(href string, entry *swapEntry) (cnd.Entity, error) {
	props, err := json.Marshal(entry.props)
	if err != nil {
		return cnd.Entity{}, err
	}
	entity := cnd.Entity{
		Class:      []string{"swap"},
		Properties: props,
		Links:      []cnd.Link{{Rel: []string{"self"}, Href: href}},
	}
	for _, scripted := range entry.actions {
		if entry.fetches >= scripted.afterFetch {
			entity.Actions = append(entity.Actions, scripted.action)
		}
	}
	return entity, nil
}
