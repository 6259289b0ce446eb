package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"retail-ledger/internal/config"
	"retail-ledger/internal/server"
)

type IntegrationTestSuite struct {
	suite.Suite
	postgresContainer testcontainers.Container
	serverInstance    *server.Server
	cfg               *config.Config
	baseURL           string
	client            *http.Client
}

func (suite *IntegrationTestSuite) SetupSuite() {
	if testing.Short() {
		suite.T().Skip("integration test needs docker")
	}
	ctx := context.Background()

	containerReq := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "retail_ledger",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "password",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30 * time.Second),
	}

	postgresContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: containerReq,
		Started:          true,
	})
	if err != nil {
		suite.T().Fatalf("Failed to start postgres container: %s", err)
	}
	suite.postgresContainer = postgresContainer

	host, err := postgresContainer.Host(ctx)
	if err != nil {
		suite.T().Fatalf("Failed to get container host: %s", err)
	}
	port, err := postgresContainer.MappedPort(ctx, "5432")
	if err != nil {
		suite.T().Fatalf("Failed to get mapped port: %s", err)
	}

	// Migrations run inside the server when the postgres backend opens.
	suite.cfg = &config.Config{
		DataBackend:            config.BackendPostgres,
		DBHost:                 host,
		DBPort:                 port.Port(),
		DBUser:                 "postgres",
		DBPassword:             "password",
		DBName:                 "retail_ledger",
		DBSSLMode:              "disable",
		ServerPort:             "0",
		LogLevel:               "info",
		LogFormat:              "text",
		CheckingLimit:          "500",
		CheckingMaxWithdrawals: "3",
	}

	suite.client = &http.Client{Timeout: 30 * time.Second}

	if err := suite.startApplicationServer(); err != nil {
		suite.T().Fatalf("Failed to start application server: %s", err)
	}
}

func (suite *IntegrationTestSuite) startApplicationServer() error {
	serverInstance, port, err := server.StartServer(context.Background(), suite.cfg)
	if err != nil {
		return err
	}

	suite.serverInstance = serverInstance
	suite.baseURL = "http://localhost:" + port

	return suite.waitForServerReady()
}

// restartServer stops the running server, which saves the ledger, and starts
// a fresh one that loads it back.
func (suite *IntegrationTestSuite) restartServer() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(suite.T(), suite.serverInstance.Stop(ctx))
	suite.serverInstance = nil
	require.NoError(suite.T(), suite.startApplicationServer())
}

func (suite *IntegrationTestSuite) waitForServerReady() error {
	timeout := 30 * time.Second
	start := time.Now()

	for time.Since(start) < timeout {
		resp, err := suite.client.Get(suite.baseURL + "/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return nil
		}
		if resp != nil {
			resp.Body.Close()
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("server not ready after %v", timeout)
}

func (suite *IntegrationTestSuite) TearDownSuite() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if suite.serverInstance != nil {
		suite.serverInstance.Stop(ctx)
	}

	if suite.postgresContainer != nil {
		suite.postgresContainer.Terminate(ctx)
	}
}

// call sends body as JSON and returns the status and decoded envelope.
func (suite *IntegrationTestSuite) call(method, path string, body interface{}) (int, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(suite.T(), err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, suite.baseURL+path, reader)
	require.NoError(suite.T(), err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := suite.client.Do(req)
	require.NoError(suite.T(), err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(suite.T(), err)
	suite.T().Logf("%s %s -> %d %s", method, path, resp.StatusCode, respBody)

	var envelope map[string]interface{}
	require.NoError(suite.T(), json.Unmarshal(respBody, &envelope))
	return resp.StatusCode, envelope
}

func (suite *IntegrationTestSuite) data(envelope map[string]interface{}) map[string]interface{} {
	data, ok := envelope["data"].(map[string]interface{})
	require.True(suite.T(), ok, "response should carry a data object")
	return data
}

func (suite *IntegrationTestSuite) errorCode(envelope map[string]interface{}) string {
	e, ok := envelope["error"].(map[string]interface{})
	require.True(suite.T(), ok, "response should carry an error object")
	return e["code"].(string)
}

func (suite *IntegrationTestSuite) assertDecimalEqual(expected string, actual interface{}) {
	actualStr, ok := actual.(string)
	require.True(suite.T(), ok, "decimal should travel as a string, got %v", actual)

	assert.True(suite.T(), decimal.RequireFromString(expected).Equal(decimal.RequireFromString(actualStr)),
		"Decimal values not equal: expected %s, got %s", expected, actualStr)
}

// ------------------------------------------------------------------
// Steps run in the order TestFlow calls them; each builds on the state
// the previous one left behind.
// ------------------------------------------------------------------

func (suite *IntegrationTestSuite) stepHealthCheck() {
	resp, err := suite.client.Get(suite.baseURL + "/health")
	require.NoError(suite.T(), err)
	defer resp.Body.Close()
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	var health map[string]string
	require.NoError(suite.T(), json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(suite.T(), "healthy", health["status"])
	assert.Equal(suite.T(), config.BackendPostgres, health["backend"])
}

func (suite *IntegrationTestSuite) stepCreateClientAndAccounts() {
	status, env := suite.call("POST", "/clients", map[string]string{
		"name":       "Maria Silva",
		"birth_date": "01-02-1990",
		"cpf":        "11122233344",
		"address":    "Rua A, 1 - Centro - São Paulo/SP",
	})
	assert.Equal(suite.T(), http.StatusCreated, status)
	assert.Equal(suite.T(), "11122233344", suite.data(env)["cpf"])

	status, env = suite.call("POST", "/clients", map[string]string{"name": "Copy", "cpf": "11122233344"})
	assert.Equal(suite.T(), http.StatusConflict, status)
	assert.Equal(suite.T(), "duplicate_client", suite.errorCode(env))

	for want := 1; want <= 2; want++ {
		status, env = suite.call("POST", "/clients/11122233344/accounts", nil)
		assert.Equal(suite.T(), http.StatusCreated, status)
		assert.Equal(suite.T(), float64(want), suite.data(env)["number"])
	}
}

func (suite *IntegrationTestSuite) stepWithdrawalRules() {
	status, env := suite.call("POST", "/clients/11122233344/accounts/1/deposits", map[string]string{"amount": "1000"})
	assert.Equal(suite.T(), http.StatusCreated, status)
	suite.assertDecimalEqual("1000", suite.data(env)["balance"])

	status, env = suite.call("POST", "/clients/11122233344/accounts/1/withdrawals", map[string]string{"amount": "1200"})
	assert.Equal(suite.T(), http.StatusUnprocessableEntity, status)
	assert.Equal(suite.T(), "limit_exceeded", suite.errorCode(env))

	for i := 0; i < 2; i++ {
		status, _ = suite.call("POST", "/clients/11122233344/accounts/1/withdrawals", map[string]string{"amount": "500"})
		assert.Equal(suite.T(), http.StatusCreated, status)
	}

	status, env = suite.call("POST", "/clients/11122233344/accounts/1/withdrawals", map[string]string{"amount": "500"})
	assert.Equal(suite.T(), http.StatusUnprocessableEntity, status)
	assert.Equal(suite.T(), "insufficient_funds", suite.errorCode(env))

	status, env = suite.call("POST", "/clients/11122233344/accounts/3/deposits", map[string]string{"amount": "10"})
	assert.Equal(suite.T(), http.StatusBadRequest, status)
	assert.Equal(suite.T(), "invalid_selection", suite.errorCode(env))

	status, env = suite.call("POST", "/clients/11122233344/accounts/2/deposits", map[string]string{"amount": "42.42"})
	assert.Equal(suite.T(), http.StatusCreated, status)
	suite.assertDecimalEqual("42.42", suite.data(env)["balance"])
}

func (suite *IntegrationTestSuite) stepLedgerSurvivesRestart() {
	suite.restartServer()

	status, env := suite.call("GET", "/clients/11122233344/accounts/1/statement", nil)
	require.Equal(suite.T(), http.StatusOK, status)
	st := suite.data(env)
	suite.assertDecimalEqual("0", st["balance"])

	transactions := st["transactions"].([]interface{})
	require.Len(suite.T(), transactions, 3)
	kinds := make([]string, 0, len(transactions))
	for _, t := range transactions {
		kinds = append(kinds, t.(map[string]interface{})["kind"].(string))
	}
	assert.Equal(suite.T(), []string{"Deposito", "Saque", "Saque"}, kinds)

	status, env = suite.call("GET", "/accounts", nil)
	require.Equal(suite.T(), http.StatusOK, status)
	accounts := env["data"].([]interface{})
	require.Len(suite.T(), accounts, 2)
	second := accounts[1].(map[string]interface{})
	suite.assertDecimalEqual("42.42", second["balance"])
	assert.Equal(suite.T(), "Maria Silva", second["holder"])

	// The withdrawal counter starts over with the new process.
	status, _ = suite.call("POST", "/clients/11122233344/accounts/2/withdrawals", map[string]string{"amount": "40"})
	assert.Equal(suite.T(), http.StatusCreated, status)
}

func (suite *IntegrationTestSuite) TestFlow() {
	suite.stepHealthCheck()
	suite.stepCreateClientAndAccounts()
	suite.stepWithdrawalRules()
	suite.stepLedgerSurvivesRestart()
}

func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
