// Package catalogapi consume la API HTTP del catálogo (la usa catalogctl --remote).
package catalogapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"pet-adoption-catalog/internal/domain/animals"
	"pet-adoption-catalog/internal/platform/httpclient"
)

type Client struct {
	http *httpclient.Client
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	hc, err := httpclient.New(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	return &Client{http: hc}, nil
}

type wireAnimal struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Species     string `json:"species"`
	Breed       string `json:"breed"`
	Age         int    `json:"age"`
	Description string `json:"description"`
	OwnerEmail  string `json:"owner_email"`
	Address     string `json:"address"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	DateAdded   string `json:"date_added"`
}

func (w wireAnimal) toDomain() animals.Animal {
	return animals.Animal{
		ID:          w.ID,
		Name:        w.Name,
		Species:     w.Species,
		Breed:       w.Breed,
		Age:         w.Age,
		Description: w.Description,
		OwnerEmail:  w.OwnerEmail,
		Address:     w.Address,
		City:        w.City,
		PostalCode:  w.PostalCode,
		DateAdded:   w.DateAdded,
	}
}

func toDomain(in []wireAnimal) []animals.Animal {
	out := make([]animals.Animal, 0, len(in))
	for _, w := range in {
		out = append(out, w.toDomain())
	}
	return out
}

func (c *Client) ListAll(ctx context.Context) ([]animals.Animal, error) {
	var items []wireAnimal
	if err := c.http.GetJSON(ctx, "/api/animals", nil, &items); err != nil {
		return nil, storeErr("list", err)
	}
	return toDomain(items), nil
}

func (c *Client) Search(ctx context.Context, query string) ([]animals.Animal, error) {
	var resp struct {
		Results []wireAnimal `json:"results"`
	}
	if err := c.http.GetJSON(ctx, "/api/search", url.Values{"q": {query}}, &resp); err != nil {
		return nil, storeErr("search", err)
	}
	return toDomain(resp.Results), nil
}

// Sample queda acotado por el máximo que acepte el servidor.
func (c *Client) Sample(ctx context.Context, count int) ([]animals.Animal, error) {
	var items []wireAnimal
	q := url.Values{"count": {strconv.Itoa(count)}}
	if err := c.http.GetJSON(ctx, "/api/random-animals", q, &items); err != nil {
		return nil, storeErr("sample", err)
	}
	return toDomain(items), nil
}

func (c *Client) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	var w wireAnimal
	err := c.http.GetJSON(ctx, "/api/animals/"+url.PathEscape(id), nil, &w)
	if httpclient.StatusOf(err) == http.StatusNotFound {
		return animals.Animal{}, animals.ErrNotFound
	}
	if err != nil {
		return animals.Animal{}, storeErr("get", err)
	}
	return w.toDomain(), nil
}

type createResponse struct {
	AnimalID string              `json:"animal_id"`
	Errors   animals.FieldErrors `json:"errors"`
}

// Create devuelve los errores de validación del servidor como Validation,
// igual que animals.Service.
func (c *Client) Create(ctx context.Context, sub animals.Submission) (string, animals.Validation, error) {
	var resp createResponse
	err := c.http.PostJSON(ctx, "/api/animals", sub, &resp)
	var he *httpclient.HTTPError
	if errors.As(err, &he) && he.StatusCode == http.StatusBadRequest {
		var rejected createResponse
		if json.Unmarshal(he.Body, &rejected) == nil && len(rejected.Errors) > 0 {
			return "", animals.Validation{Errors: rejected.Errors}, nil
		}
	}
	if err != nil {
		return "", animals.Validation{}, storeErr("create", err)
	}
	return resp.AnimalID, animals.Validation{Errors: animals.FieldErrors{}}, nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: remote %s: %v", animals.ErrStore, op, err)
}
