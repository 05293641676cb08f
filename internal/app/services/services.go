package services

// Services defined in this package:
// - AuthService: account registration and login
// - StudentService: registrar operations over students and sections
// - SubjectService: subject catalog and the prerequisite graph
// - WeightService: per-subject grade category weights
// - EnrollmentService: single and bulk enrollment, unenrollment, rosters
// - GradeService: assessments, grade recording and final-grade aggregation
// - GradebookService: section-wide score matrices
// - DashboardService: headline counts
