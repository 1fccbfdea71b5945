package integration

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/el-ostaa/ostaa-api/config"
	"github.com/el-ostaa/ostaa-api/models"
	"github.com/el-ostaa/ostaa-api/services"
	"github.com/el-ostaa/ostaa-api/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// RequestIntegrationTestSuite walks service requests through their lifecycle
// over HTTP with real tokens
type RequestIntegrationTestSuite struct {
	suite.Suite
	router       *gin.Engine
	db           *gorm.DB
	cfg          *config.Config
	customer     string
	customerID   string
	managerToken string
	staffToken   string
	technicianID string
}

// SetupSuite runs once before all tests
func (suite *RequestIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.cfg = loadTestConfig(suite.T())
}

// SetupTest runs before each test
func (suite *RequestIntegrationTestSuite) SetupTest() {
	suite.db = testutil.NewTestDB(suite.T())
	seedAdmins(suite.T())
	services.SetTokenStore(services.NewMemoryTokenStore())
	config.SetConfig(suite.cfg)
	suite.router = newAPIRouter(suite.cfg)

	status, response := doJSON(suite.T(), suite.router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "أحمد علي", "phone": "01012345678", "password": "secret", "location": "مدينة نصر",
	})
	suite.Require().Equal(http.StatusCreated, status)
	suite.customer = dataOf(response)["token"].(string)
	suite.customerID = dataOf(response)["user"].(map[string]interface{})["id"].(string)

	suite.managerToken = suite.adminLogin("manager", "manager123", "سارة")
	suite.staffToken = suite.adminLogin("staff_admin", "admin123", "هدى")

	status, response = doJSON(suite.T(), suite.router, http.MethodPost, "/api/v1/technicians", "", gin.H{
		"name": "محمود", "phone": "01111111111", "profession": "plumber", "experience": 10, "location": "الجيزة",
	})
	suite.Require().Equal(http.StatusCreated, status, response)
	suite.technicianID = dataOf(response)["id"].(string)
}

func (suite *RequestIntegrationTestSuite) adminLogin(role, password, name string) string {
	status, response := doJSON(suite.T(), suite.router, http.MethodPost, "/api/v1/admin/login", "", gin.H{
		"role": role, "password": password, "name": name,
	})
	suite.Require().Equal(http.StatusOK, status, response)
	return dataOf(response)["token"].(string)
}

func (suite *RequestIntegrationTestSuite) submit(description string) string {
	status, response := doJSON(suite.T(), suite.router, http.MethodPost, "/api/v1/requests", suite.customer, gin.H{
		"category": "plumber", "description": description, "location": "مدينة نصر", "preferred_time": "الآن",
	})
	suite.Require().Equal(http.StatusCreated, status, response)
	return dataOf(response)["id"].(string)
}

func (suite *RequestIntegrationTestSuite) listCount(view, query string) int {
	path := "/api/v1/admin/requests?view=" + view
	if query != "" {
		path += "&q=" + url.QueryEscape(query)
	}
	status, response := doJSON(suite.T(), suite.router, http.MethodGet, path, suite.staffToken, nil)
	suite.Require().Equal(http.StatusOK, status)
	return int(dataOf(response)["count"].(float64))
}

func (suite *RequestIntegrationTestSuite) logCount(action string) int64 {
	var n int64
	suite.Require().NoError(suite.db.Model(&models.SystemLog{}).Where("action = ?", action).Count(&n).Error)
	return n
}

// TestFullLifecycle takes a request from submission to the archive
func (suite *RequestIntegrationTestSuite) TestFullLifecycle() {
	id := suite.submit("تسريب تحت الحوض")
	suite.Equal(1, suite.listCount("active", ""))

	status, _ := doJSON(suite.T(), suite.router, http.MethodPatch, "/api/v1/admin/technicians/"+suite.technicianID+"/approve", suite.staffToken, nil)
	suite.Require().Equal(http.StatusOK, status)

	status, response := doJSON(suite.T(), suite.router, http.MethodPatch, "/api/v1/admin/requests/"+id+"/assign", suite.staffToken,
		gin.H{"technician_id": suite.technicianID})
	suite.Require().Equal(http.StatusOK, status, response)
	suite.Equal("accepted", dataOf(response)["status"])
	suite.Equal("محمود", dataOf(response)["technician_name"])

	status, response = doJSON(suite.T(), suite.router, http.MethodPatch, "/api/v1/admin/requests/"+id+"/status", suite.staffToken,
		gin.H{"status": "completed", "notes": "تم تغيير الخلاط"})
	suite.Require().Equal(http.StatusOK, status, response)

	suite.Equal(0, suite.listCount("active", ""))
	suite.Equal(1, suite.listCount("archive", ""))

	status, response = doJSON(suite.T(), suite.router, http.MethodGet, "/api/v1/profile", suite.customer, nil)
	suite.Require().Equal(http.StatusOK, status)
	requests := dataOf(response)["requests"].([]interface{})
	suite.Require().Len(requests, 1)
	suite.Equal("completed", requests[0].(map[string]interface{})["status"])
	suite.Equal("تم تغيير الخلاط", requests[0].(map[string]interface{})["notes"])

	status, response = doJSON(suite.T(), suite.router, http.MethodGet, "/api/v1/admin/stats", suite.staffToken, nil)
	suite.Require().Equal(http.StatusOK, status)
	suite.Equal(float64(1), dataOf(response)["completed_requests"])
	suite.Equal(float64(0), dataOf(response)["active_requests"])

	suite.Equal(int64(1), suite.logCount(services.ActionRequestCreated))
	suite.Equal(int64(1), suite.logCount(services.ActionRequestReassigned))
	suite.Equal(int64(1), suite.logCount(services.ActionRequestUpdated))
}

// TestTerminalRequestsStayTerminal checks archived requests cannot be revived
func (suite *RequestIntegrationTestSuite) TestTerminalRequestsStayTerminal() {
	id := suite.submit("باب لا يغلق")

	status, _ := doJSON(suite.T(), suite.router, http.MethodPatch, "/api/v1/admin/requests/"+id+"/status", suite.staffToken,
		gin.H{"status": "rejected"})
	suite.Require().Equal(http.StatusOK, status)

	status, response := doJSON(suite.T(), suite.router, http.MethodPatch, "/api/v1/admin/requests/"+id+"/status", suite.staffToken,
		gin.H{"status": "accepted"})
	suite.Equal(http.StatusConflict, status)
	suite.Equal("INVALID_TRANSITION", errorCodeOf(response))

	status, _ = doJSON(suite.T(), suite.router, http.MethodPatch, "/api/v1/admin/requests/"+id+"/assign", suite.staffToken,
		gin.H{"technician_id": suite.technicianID})
	suite.Equal(http.StatusConflict, status)

	status, _ = doJSON(suite.T(), suite.router, http.MethodPatch, "/api/v1/admin/requests/"+id+"/status", suite.staffToken,
		gin.H{"status": "deleted"})
	suite.Equal(http.StatusBadRequest, status, "Deletion goes through DELETE only")
}

// TestDeleteIsManagerOnly checks the manager tier gate on deletion
func (suite *RequestIntegrationTestSuite) TestDeleteIsManagerOnly() {
	id := suite.submit("عطل في السخان")

	status, _ := doJSON(suite.T(), suite.router, http.MethodDelete, "/api/v1/admin/requests/"+id, suite.staffToken, nil)
	suite.Equal(http.StatusForbidden, status)
	suite.Equal(1, suite.listCount("active", ""))

	status, _ = doJSON(suite.T(), suite.router, http.MethodDelete, "/api/v1/admin/requests/"+id, suite.managerToken, nil)
	suite.Require().Equal(http.StatusOK, status)
	suite.Equal(0, suite.listCount("active", ""))
	suite.Equal(1, suite.listCount("archive", ""))

	status, _ = doJSON(suite.T(), suite.router, http.MethodDelete, "/api/v1/admin/requests/"+id, suite.managerToken, nil)
	suite.Equal(http.StatusConflict, status)
}

// TestSearch checks the dashboard search on both views
func (suite *RequestIntegrationTestSuite) TestSearch() {
	suite.submit("أول")
	second := suite.submit("ثاني")

	suite.Equal(2, suite.listCount("active", "أحمد"))
	suite.Equal(0, suite.listCount("active", "احمد"), "Search is exact, not normalized")
	suite.Equal(1, suite.listCount("active", second))
	suite.Equal(0, suite.listCount("archive", "أحمد"))
}

// TestAuditTrailAndExport checks the manager sees every action in the logs and export
func (suite *RequestIntegrationTestSuite) TestAuditTrailAndExport() {
	suite.submit("تركيب نجفة")

	status, response := doJSON(suite.T(), suite.router, http.MethodGet, "/api/v1/admin/logs", suite.managerToken, nil)
	suite.Require().Equal(http.StatusOK, status)
	logs := response["data"].([]interface{})
	// register, two admin logins, technician signup, request
	suite.Len(logs, 5)
	suite.Equal(services.ActionRequestCreated, logs[0].(map[string]interface{})["action"])
	suite.Equal("أحمد علي", logs[0].(map[string]interface{})["actor"])

	status, response = doJSON(suite.T(), suite.router, http.MethodGet, "/api/v1/admin/export", suite.managerToken, nil)
	suite.Require().Equal(http.StatusOK, status)
	suite.Len(response["ostaa_users"], 2)
	suite.Len(response["ostaa_requests"], 1)
	suite.Len(response["ostaa_logs"], 5)
}

// TestRequestIntegrationSuite runs the request lifecycle integration test suite
func TestRequestIntegrationSuite(t *testing.T) {
	testutil.RequireTestEnvironmentOrSkip(t)
	suite.Run(t, new(RequestIntegrationTestSuite))
}
