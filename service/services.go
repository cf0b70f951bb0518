package service

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Aisenh037/MBC-sub002/auth"
	"github.com/Aisenh037/MBC-sub002/cache"
	"github.com/Aisenh037/MBC-sub002/dao"
	"github.com/Aisenh037/MBC-sub002/util"
)

// Services bundles every business-logic service plus the DAOs middleware
// needs direct access to: UserDAO backs identity lookups and StudentDAO
// backs self-access resolution.
type Services struct {
	Auth        IAuthService
	User        IUserService
	Student     IStudentService
	Professor   IProfessorService
	Course      ICourseService
	Branch      IBranchService
	Assignment  IAssignmentService
	Mark        IMarkService
	Attendance  IAttendanceService
	Notice      INoticeService
	Analytics   IAnalyticsService
	Sentiment   ISentimentService
	Institution IInstitutionService

	UserDAO    *dao.UserDAO
	StudentDAO *dao.StudentDAO
}

func InitializeServices(
	driver neo4j.Driver,
	issuer *auth.TokenIssuer,
	cacheSvc *cache.Cache,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
) (*Services, error) {
	userDAO := dao.NewUserDAO(driver)
	studentDAO := dao.NewStudentDAO(driver)
	professorDAO := dao.NewProfessorDAO(driver)
	courseDAO := dao.NewCourseDAO(driver)
	branchDAO := dao.NewBranchDAO(driver)
	assignmentDAO := dao.NewAssignmentDAO(driver)
	markDAO := dao.NewMarkDAO(driver)
	attendanceDAO := dao.NewAttendanceDAO(driver)
	noticeDAO := dao.NewNoticeDAO(driver)
	feedbackDAO := dao.NewFeedbackDAO(driver)
	institutionDAO := dao.NewInstitutionDAO(driver)

	validationUtil := util.NewValidationUtil()

	services := &Services{
		Auth:        NewAuthService(userDAO, issuer, cacheSvc),
		User:        NewUserService(userDAO, validationUtil, cacheSvc, eventBus),
		Student:     NewStudentService(studentDAO, validationUtil, cacheSvc, notificationSvc, eventBus),
		Professor:   NewProfessorService(professorDAO, cacheSvc, eventBus),
		Course:      NewCourseService(courseDAO, cacheSvc, eventBus),
		Branch:      NewBranchService(branchDAO, cacheSvc, eventBus),
		Assignment:  NewAssignmentService(assignmentDAO, cacheSvc, notificationSvc, eventBus),
		Mark:        NewMarkService(markDAO, cacheSvc, notificationSvc, eventBus),
		Attendance:  NewAttendanceService(attendanceDAO, cacheSvc),
		Notice:      NewNoticeService(noticeDAO, cacheSvc, notificationSvc, eventBus),
		Analytics:   NewAnalyticsService(markDAO, studentDAO, professorDAO, courseDAO, noticeDAO, cacheSvc),
		Sentiment:   NewSentimentService(feedbackDAO, validationUtil, cacheSvc),
		Institution: NewInstitutionService(institutionDAO, cacheSvc),

		UserDAO:    userDAO,
		StudentDAO: studentDAO,
	}

	return services, nil
}
