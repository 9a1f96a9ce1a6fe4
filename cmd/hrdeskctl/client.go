package main

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

func newClient() *resty.Client {
	return resty.New().
		SetBaseURL(apiFlag).
		SetTimeout(2 * time.Minute)
}

func checkStatus(resp *resty.Response, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	return resp.Body(), nil
}

func doGet(path string) ([]byte, error) {
	resp, err := newClient().R().Get(path)
	return checkStatus(resp, err)
}

func doPostJSON(path string, payload interface{}) ([]byte, error) {
	resp, err := newClient().R().
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(path)
	return checkStatus(resp, err)
}

func doDelete(path string) ([]byte, error) {
	resp, err := newClient().R().Delete(path)
	return checkStatus(resp, err)
}
