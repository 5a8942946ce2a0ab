package model

import "strings"

// Profile is the role-specific part of a user.  The interface is sealed:
// only *StudentProfile and *TeacherProfile implement it, so a User carries
// at most one variant and the variant always agrees with its Role.
type Profile interface {
    Role() Role
    Validate() error
    sealed()
}

// StudentProfile holds the academic details of a student.
type StudentProfile struct {
    Name             string   `json:"name" bson:"name"`
    StudentID        string   `json:"studentId" bson:"studentId"`
    Course           string   `json:"course" bson:"course"`
    Semester         string   `json:"semester" bson:"semester"`
    Degree           string   `json:"degree" bson:"degree"`
    Bio              string   `json:"bio" bson:"bio"`
    Interests        []string `json:"interests" bson:"interests"`
    AvatarRef        string   `json:"avatarRef,omitempty" bson:"avatar,omitempty"`
    CoursesCompleted int      `json:"coursesCompleted" bson:"coursesCompleted"`
    StudyHours       int      `json:"studyHours" bson:"studyHours"`
}

func (*StudentProfile) Role() Role { return RoleStudent }
func (*StudentProfile) sealed()    {}

// Validate requires studentId, course, semester and degree and
// non-negative counters.
func (p *StudentProfile) Validate() error {
    if err := required(
        "studentId", p.StudentID,
        "course", p.Course,
        "semester", p.Semester,
        "degree", p.Degree,
    ); err != nil {
        return err
    }
    if p.CoursesCompleted < 0 {
        return &FieldError{Field: "coursesCompleted", Reason: "must not be negative"}
    }
    if p.StudyHours < 0 {
        return &FieldError{Field: "studyHours", Reason: "must not be negative"}
    }
    return nil
}

// CourseSlot is a course taught by a teacher together with its schedule.
type CourseSlot struct {
    Title    string `json:"title" bson:"title"`
    Schedule string `json:"schedule" bson:"schedule"`
}

// TeacherProfile holds the professional details of a teacher.
type TeacherProfile struct {
    Name           string       `json:"name" bson:"name"`
    TeacherID      string       `json:"teacherId" bson:"teacherId"`
    Department     string       `json:"department" bson:"department"`
    Specialization string       `json:"specialization" bson:"specialization"`
    Qualifications []string     `json:"qualifications" bson:"qualifications"`
    Experience     int          `json:"experience" bson:"experience"`
    Bio            string       `json:"bio" bson:"bio"`
    Courses        []CourseSlot `json:"courses" bson:"courses"`
    AvatarRef      string       `json:"avatarRef,omitempty" bson:"avatar,omitempty"`
}

func (*TeacherProfile) Role() Role { return RoleTeacher }
func (*TeacherProfile) sealed()    {}

// Validate requires teacherId, department and specialization and a
// non-negative experience.
func (p *TeacherProfile) Validate() error {
    if err := required(
        "teacherId", p.TeacherID,
        "department", p.Department,
        "specialization", p.Specialization,
    ); err != nil {
        return err
    }
    if p.Experience < 0 {
        return &FieldError{Field: "experience", Reason: "must not be negative"}
    }
    return nil
}

// required takes name/value pairs and returns a FieldError for the first
// blank value.
func required(pairs ...string) error {
    for i := 0; i+1 < len(pairs); i += 2 {
        if strings.TrimSpace(pairs[i+1]) == "" {
            return &FieldError{Field: pairs[i], Reason: "is required"}
        }
    }
    return nil
}
